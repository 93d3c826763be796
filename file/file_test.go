package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaveUpload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	assert := assert.New(t)
	a, err := SaveUpload(dir, ".WAV", strings.NewReader("one"))
	assert.NoError(err)
	b, err := SaveUpload(dir, ".wav", strings.NewReader("two"))
	assert.NoError(err)

	assert.NotEqual(a, b)
	assert.Equal(".wav", filepath.Ext(a))
	data, _ := os.ReadFile(a)
	assert.Equal("one", string(data))
}

func TestTabPath(t *testing.T) {
	assert.Equal(t, "/out/song.tab.json", TabPath("/out", "/in/dir/song.mid"))
}
