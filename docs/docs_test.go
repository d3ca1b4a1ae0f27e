package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocTemplate_RendersValidDocument(t *testing.T) {
	raw := SwaggerInfo.ReadDoc()

	var doc struct {
		Paths       map[string]map[string]any `json:"paths"`
		Definitions map[string]any            `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	routes := map[string][]string{
		"/metrics/visitors":           {"get"},
		"/metrics/visitors/breakdown": {"get"},
		"/visits":                     {"post"},
		"/visits/bulk":                {"post"},
		"/visitors":                   {"get"},
		"/visitors/{ip}/ban":          {"post", "delete"},
	}
	for path, methods := range routes {
		ops, ok := doc.Paths[path]
		require.True(t, ok, "missing path %s", path)
		for _, m := range methods {
			assert.Contains(t, ops, m, "missing %s %s", m, path)
		}
	}
	assert.NotEmpty(t, doc.Definitions)
}
