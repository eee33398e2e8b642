package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDim(t *testing.T) {
	vec := make([]float32, 1536)

	require.NoError(t, checkDim("gemini-embedding-001", 1536, vec))

	// Zero means unchecked, for callers that accept whatever the model
	// returns.
	require.NoError(t, checkDim("gemini-embedding-001", 0, vec))

	err := checkDim("gemini-embedding-001", 1536, make([]float32, 3072))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")
	assert.Contains(t, err.Error(), "3072")
	assert.Contains(t, err.Error(), "1536")
}
