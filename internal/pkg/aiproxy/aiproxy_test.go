package aiproxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForProvider(t *testing.T) {
	t.Run("known providers resolve", func(t *testing.T) {
		for _, name := range KnownProviders() {
			assert.NotNil(t, ForProvider(name, "test-key"), name)
		}
	})

	t.Run("names match case-insensitively", func(t *testing.T) {
		assert.NotNil(t, ForProvider("OpenAI", "test-key"))
		assert.NotNil(t, ForProvider("  GEMINI  ", "test-key"))
		assert.NotNil(t, ForProvider("DeepSeek", "test-key"))
	})

	t.Run("unknown provider returns nil", func(t *testing.T) {
		assert.Nil(t, ForProvider("anthropic", "test-key"))
		assert.Nil(t, ForProvider("", "test-key"))
	})
}
