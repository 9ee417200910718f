package tool

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/hupe1980/agentloop/model"
	"github.com/xeipuuv/gojsonschema"
)

// Registry holds the name-unique tool set of a single agent. Registration
// compiles each tool's parameter schema once; Invoke validates raw arguments
// against the compiled schema before the tool's execute capability runs.
//
// A Registry is safe for concurrent use across runs: lookups take a read
// lock and tools themselves are required to be concurrency safe.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	schemas map[string]*gojsonschema.Schema
	order   []string
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:   make(map[string]Tool),
		schemas: make(map[string]*gojsonschema.Schema),
	}
}

// Register adds a tool. It fails with *DuplicateToolNameError if the name is
// already taken and with a schema compilation error if the tool's declared
// parameters are not a valid JSON schema.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.Name()
	if _, exists := r.tools[name]; exists {
		return &DuplicateToolNameError{Name: name}
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(t.Parameters()))
	if err != nil {
		return fmt.Errorf("tool %s: invalid parameter schema: %w", name, err)
	}

	r.tools[name] = t
	r.schemas[name] = schema
	r.order = append(r.order, name)
	return nil
}

// MustRegister is Register but panics on error; intended for static setup.
func (r *Registry) MustRegister(tools ...Tool) *Registry {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	return r
}

// Has reports whether a tool is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Definitions exposes the registered tools as provider tool definitions in
// registration order.
func (r *Registry) Definitions() []model.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]model.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// Invoke looks up the named tool, validates rawArgs against its parameter
// schema and executes it.
//
// Error semantics:
//
//	*NotFoundError          -> no such tool registered
//	*SchemaValidationError  -> arguments rejected, names the offending field
//	*ExecutionError         -> tool ran and failed (incl. recovered panics);
//	                           non-fatal, recorded as a tool result upstream
func (r *Registry) Invoke(tc *Context, name, rawArgs string) (result any, err error) {
	r.mu.RLock()
	t, ok := r.tools[name]
	schema := r.schemas[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &NotFoundError{Name: name}
	}

	args, err := r.validate(tc, t, schema, rawArgs)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			tc.Logger.Error("tool.call.panic", "tool", name, "recover", rec, "stack", string(debug.Stack()))
			result = nil
			err = &ExecutionError{Tool: name, Cause: fmt.Errorf("panic: %v", rec)}
		}
	}()

	result, callErr := t.Call(tc, args)
	if callErr != nil {
		tc.Logger.Warn("tool.call.error", "tool", name, "call_id", tc.CallID, "error", callErr.Error())
		return nil, &ExecutionError{Tool: name, Cause: callErr}
	}

	tc.Logger.Debug("tool.call.success", "tool", name, "call_id", tc.CallID, "duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

// validate decodes and schema-checks the raw argument payload.
func (r *Registry) validate(tc *Context, t Tool, schema *gojsonschema.Schema, rawArgs string) (map[string]any, error) {
	if rawArgs == "" {
		rawArgs = "{}"
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return nil, &SchemaValidationError{Tool: t.Name(), Field: "(document)", Message: fmt.Sprintf("arguments are not a JSON object: %v", err)}
	}

	res, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return nil, &SchemaValidationError{Tool: t.Name(), Field: "(document)", Message: err.Error()}
	}
	if !res.Valid() {
		first := res.Errors()[0]
		field := first.Field()
		if details := first.Details(); field == "(root)" {
			// Required-property violations report the missing name in details.
			if prop, ok := details["property"].(string); ok {
				field = prop
			}
		}
		tc.Logger.Warn("tool.call.validation_failed", "tool", t.Name(), "field", field, "error", first.Description())
		return nil, &SchemaValidationError{Tool: t.Name(), Field: field, Message: first.Description()}
	}
	return args, nil
}
