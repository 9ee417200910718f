package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleArgs struct {
	City    string  `json:"city" description:"City name"`
	Days    *int    `json:"days" description:"Optional forecast days"`
	Units   string  `json:"units,omitempty" description:"Unit system"`
	Lat     float64 `json:"lat"`
	hidden  string
	Skipped string `json:"-"`
}

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema(sampleArgs{})
	assert.Equal(t, "object", schema["type"])

	props := schema["properties"].(map[string]any)
	assert.Contains(t, props, "city")
	assert.Contains(t, props, "days")
	assert.Contains(t, props, "units")
	assert.Contains(t, props, "lat")
	assert.NotContains(t, props, "hidden")
	assert.NotContains(t, props, "Skipped")

	city := props["city"].(map[string]any)
	assert.Equal(t, "string", city["type"])
	assert.Equal(t, "City name", city["description"])
	assert.Equal(t, "number", props["lat"].(map[string]any)["type"])
	assert.Equal(t, "integer", props["days"].(map[string]any)["type"])

	// Pointer and omitempty fields are optional.
	req := schema["required"].([]string)
	assert.ElementsMatch(t, []string{"city", "lat"}, req)
}

func TestCreateSchemaNonStruct(t *testing.T) {
	schema := CreateSchema(42)
	assert.Equal(t, "object", schema["type"])
	assert.Empty(t, schema["properties"])
}

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("You are {{.AgentName}}. Peers: {{join .Peers \", \"}}.", map[string]any{
		"AgentName": "MathAgent",
		"Peers":     []string{"A", "B"},
	})
	require.NoError(t, err)
	assert.Equal(t, "You are MathAgent. Peers: A, B.", out)
}

func TestRenderTemplateFastPath(t *testing.T) {
	out, err := RenderTemplate("plain text, no markers", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain text, no markers", out)
}

func TestRenderTemplateFuncs(t *testing.T) {
	out, err := RenderTemplate("{{upper .Name}} / {{lower .Name}}", map[string]any{"Name": "Mixed"})
	require.NoError(t, err)
	assert.Equal(t, "MIXED / mixed", out)
}

func TestRenderTemplateInvalid(t *testing.T) {
	_, err := RenderTemplate("{{.Broken", nil)
	assert.Error(t, err)
}
