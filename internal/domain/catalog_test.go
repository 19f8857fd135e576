package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedIndices_ReturnsACopy(t *testing.T) {
	indices := SupportedIndices()
	require.Len(t, indices, 5)
	assert.Equal(t, "^GSPC", indices[0].Symbol)

	indices[0].Symbol = "mutated"
	assert.Equal(t, "^GSPC", SupportedIndices()[0].Symbol)
}
