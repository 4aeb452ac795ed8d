package ui

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssets(t *testing.T) {
	index, err := fs.ReadFile(Public(), "index.html")
	require.NoError(t, err)
	assert.Contains(t, string(index), `id="blockedList"`)
	assert.Contains(t, string(index), `src="/js/script.js"`)

	for _, name := range []string{"js/script.js", "css/style.css"} {
		_, err := fs.Stat(Static(), name)
		assert.NoError(t, err, name)
	}
}
