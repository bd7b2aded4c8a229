package local

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medsup-innovation/medsup-backend/pkg/config"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(config.UploadsConfig{
		Dir:        t.TempDir(),
		PublicBase: "/uploads",
	})
	require.NoError(t, err)
	return client
}

func TestSaveAndRemove(t *testing.T) {
	client := newTestClient(t)

	url, err := client.Save("products/abc.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/products/abc.png", url)

	data, err := os.ReadFile(filepath.Join(client.Dir(), "products", "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, client.Remove("products/abc.png"))
	_, err = os.Stat(filepath.Join(client.Dir(), "products", "abc.png"))
	assert.True(t, os.IsNotExist(err))

	// removing again is a no-op
	require.NoError(t, client.Remove("products/abc.png"))
}

func TestSaveRejectsTraversal(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Save("../outside.txt", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestNewClientRequiresDir(t *testing.T) {
	_, err := NewClient(config.UploadsConfig{})
	assert.Error(t, err)
}
