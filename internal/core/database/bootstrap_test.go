package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBootstrapSQLSizesVectorColumn(t *testing.T) {
	script, err := renderBootstrapSQL(768)
	require.NoError(t, err)

	assert.Contains(t, script, "vector(768)")
	assert.NotContains(t, script, "{{embed_dim}}")
}

func TestRenderBootstrapSQLDefaultsDimension(t *testing.T) {
	script, err := renderBootstrapSQL(0)
	require.NoError(t, err)

	assert.Contains(t, script, "vector(1536)")
	assert.NotContains(t, script, "{{embed_dim}}")
	assert.True(t, strings.Contains(script, "CREATE EXTENSION IF NOT EXISTS vector"))
}
