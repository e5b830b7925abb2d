package openapi

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDocumentPaths(t *testing.T) {
	doc := Document("test", "http://localhost:8080")

	for _, path := range []string{"/auth/login", "/auth/signup", "/auth/create-keypair", "/auth/session", "/health"} {
		assert.NotNil(t, doc.Paths.Value(path), path)
	}

	login := doc.Paths.Value("/auth/login").Post
	require.NotNil(t, login)
	assert.NotNil(t, login.Responses.Value("200"))
	assert.NotNil(t, login.Responses.Value("401"))
	assert.Nil(t, login.Responses.Value("409"))

	create := doc.Paths.Value("/auth/create-keypair").Post
	require.NotNil(t, create)
	assert.NotNil(t, create.Responses.Value("201"))
	assert.NotNil(t, create.Responses.Value("409"))
}

func TestKeyPairResponseHasNoPrivateKey(t *testing.T) {
	doc := Document("test", "")

	schema := doc.Components.Schemas["KeyPairResponse"].Value
	assert.Contains(t, schema.Properties, "publicKey")
	assert.NotContains(t, schema.Properties, "privateKey")
}

func TestDocumentValidates(t *testing.T) {
	raw, err := MarshalJSON(Document("test", ""))
	require.NoError(t, err)

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(raw)
	require.NoError(t, err)
	assert.NoError(t, doc.Validate(context.Background()))
}

func TestMarshalYAML(t *testing.T) {
	raw, err := MarshalYAML(Document("1.2.3", ""))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, yaml.Unmarshal(raw, &out))
	assert.Equal(t, "3.1.0", out["openapi"])
	info := out["info"].(map[string]any)
	assert.Equal(t, "1.2.3", info["version"])

	js, err := MarshalJSON(Document("1.2.3", ""))
	require.NoError(t, err)
	var fromJSON map[string]any
	require.NoError(t, json.Unmarshal(js, &fromJSON))
	assert.Equal(t, len(fromJSON["paths"].(map[string]any)), len(out["paths"].(map[string]any)))
}
