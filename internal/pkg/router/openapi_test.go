package router

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const openAPIPath = "../../../public/docs/v1/openapi.yml"

func loadAPIDoc(t *testing.T) *openapi3.T {
	t.Helper()
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(openAPIPath)
	require.NoError(t, err, "openapi document must parse")
	require.NoError(t, doc.Validate(context.Background()), "openapi document must validate")
	return doc
}

func TestOpenAPIDocumentIsValid(t *testing.T) {
	doc := loadAPIDoc(t)
	assert.Equal(t, "AIGate API", doc.Info.Title)
}

func TestOpenAPIDocumentCoversCoreRoutes(t *testing.T) {
	doc := loadAPIDoc(t)

	// Served under /api, so the document paths omit the prefix.
	for _, p := range []string{
		"/auth/register",
		"/auth/login",
		"/auth/admin/login",
		"/users/credits",
		"/chatbot/send",
		"/chatbot/send-with-api-key",
		"/topup/",
		"/admin/users",
		"/admin-permission/replace",
		"/ai-model-api-key/{provider}",
		"/log",
	} {
		assert.NotNil(t, doc.Paths.Find(p), "missing path %s", p)
	}
}

func TestOpenAPIDocumentDeclaresEnvelopes(t *testing.T) {
	doc := loadAPIDoc(t)
	require.Contains(t, doc.Components.Schemas, "SuccessEnvelope")
	require.Contains(t, doc.Components.Schemas, "ErrorEnvelope")
	require.Contains(t, doc.Components.SecuritySchemes, "bearerAuth")
}
