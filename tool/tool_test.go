package tool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() *Context {
	return NewContext(context.Background(), "run_1", "TestAgent", "call_1", nil)
}

func sumTool() *FunctionTool {
	return NewFunctionTool(
		"sum_numbers",
		"Calculate the sum of two numbers",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"a": map[string]any{"type": "number"},
				"b": map[string]any{"type": "number"},
			},
			"required": []string{"a", "b"},
		},
		func(_ *Context, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		},
	)
}

// -------------------- Registration Tests --------------------

func TestRegistryRegisterAndNames(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(sumTool()))
	assert.True(t, r.Has("sum_numbers"))
	assert.False(t, r.Has("divide_numbers"))

	other := NewFunctionTool("divide_numbers", "Divide", map[string]any{"type": "object"}, nil)
	require.NoError(t, r.Register(other))

	// Registration order is preserved.
	assert.Equal(t, []string{"sum_numbers", "divide_numbers"}, r.Names())

	defs := r.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "sum_numbers", defs[0].Name)
	assert.Equal(t, "Calculate the sum of two numbers", defs[0].Description)
}

func TestRegistryDuplicateName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(sumTool()))

	err := r.Register(sumTool())
	require.Error(t, err)

	var dupErr *DuplicateToolNameError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "sum_numbers", dupErr.Name)
}

func TestRegistryInvalidSchema(t *testing.T) {
	r := NewRegistry()
	bad := NewFunctionTool("bad", "broken schema", map[string]any{
		"type":       "object",
		"properties": map[string]any{"x": map[string]any{"type": 42}},
	}, nil)
	assert.Error(t, r.Register(bad))
}

func TestMustRegisterPanics(t *testing.T) {
	r := NewRegistry().MustRegister(sumTool())
	assert.Panics(t, func() { r.MustRegister(sumTool()) })
}

// -------------------- Invocation Tests --------------------

func TestInvokeSuccess(t *testing.T) {
	r := NewRegistry().MustRegister(sumTool())

	result, err := r.Invoke(testContext(), "sum_numbers", `{"a": 5, "b": 5}`)
	require.NoError(t, err)
	assert.Equal(t, float64(10), result)
}

func TestInvokeNotFound(t *testing.T) {
	r := NewRegistry()

	_, err := r.Invoke(testContext(), "missing", "{}")
	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "missing", nfErr.Name)
}

func TestInvokeValidation(t *testing.T) {
	r := NewRegistry().MustRegister(sumTool())

	// Missing required field names the field, not the root.
	_, err := r.Invoke(testContext(), "sum_numbers", `{"a": 5}`)
	var vErr *SchemaValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "sum_numbers", vErr.Tool)
	assert.Equal(t, "b", vErr.Field)

	// Wrong type.
	_, err = r.Invoke(testContext(), "sum_numbers", `{"a": "five", "b": 5}`)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "a", vErr.Field)

	// Malformed JSON payload.
	_, err = r.Invoke(testContext(), "sum_numbers", `{not json`)
	require.ErrorAs(t, err, &vErr)

	// Empty arguments are treated as an empty object.
	_, err = r.Invoke(testContext(), "sum_numbers", "")
	require.ErrorAs(t, err, &vErr)
}

func TestInvokeExecutionError(t *testing.T) {
	cause := errors.New("division by zero")
	r := NewRegistry().MustRegister(NewFunctionTool(
		"divide_numbers", "Divide", map[string]any{"type": "object"},
		func(_ *Context, _ map[string]any) (any, error) { return nil, cause },
	))

	_, err := r.Invoke(testContext(), "divide_numbers", "{}")
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "divide_numbers", execErr.Tool)
	assert.ErrorIs(t, err, cause)
}

func TestInvokeRecoversPanic(t *testing.T) {
	r := NewRegistry().MustRegister(NewFunctionTool(
		"explosive", "Panics", map[string]any{"type": "object"},
		func(_ *Context, _ map[string]any) (any, error) { panic("boom") },
	))

	_, err := r.Invoke(testContext(), "explosive", "{}")
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Contains(t, execErr.Error(), "boom")
}

// -------------------- Struct Schema Tests --------------------

type echoArgs struct {
	Text   string `json:"text" description:"Text to echo"`
	Repeat *int   `json:"repeat" description:"Optional repeat count"`
}

func TestFunctionToolFromStruct(t *testing.T) {
	r := NewRegistry().MustRegister(NewFunctionToolFromStruct(
		"echo", "Echo text", echoArgs{},
		func(_ *Context, args map[string]any) (any, error) {
			return fmt.Sprintf("%v", args["text"]), nil
		},
	))

	result, err := r.Invoke(testContext(), "echo", `{"text": "hi"}`)
	require.NoError(t, err)
	assert.Equal(t, "hi", result)

	// The pointer field is optional, the string field is not.
	var vErr *SchemaValidationError
	_, err = r.Invoke(testContext(), "echo", `{"repeat": 2}`)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "text", vErr.Field)
}

// -------------------- Handoff Tests --------------------

func TestHandoffDefinition(t *testing.T) {
	def := HandoffDefinition([]string{"WeatherAgent", "MathAgent"})
	assert.Equal(t, HandoffToolName, def.Name)

	props := def.Parameters["properties"].(map[string]any)
	agentSchema := props["agent"].(map[string]any)
	assert.Equal(t, []string{"WeatherAgent", "MathAgent"}, agentSchema["enum"])
	assert.Equal(t, []string{"agent"}, def.Parameters["required"])
}

func TestParseHandoffTarget(t *testing.T) {
	target, err := ParseHandoffTarget(`{"agent": "WeatherAgent"}`)
	require.NoError(t, err)
	assert.Equal(t, "WeatherAgent", target)

	_, err = ParseHandoffTarget(`{}`)
	assert.Error(t, err)

	_, err = ParseHandoffTarget(`not json`)
	assert.Error(t, err)
}
