package local

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/medsup-innovation/medsup-backend/pkg/config"
)

// Client stores uploaded files on the local filesystem and maps them to
// public URLs served from the uploads mount.
type Client struct {
	dir        string
	publicBase string
}

func NewClient(cfg config.UploadsConfig) (*Client, error) {
	if cfg.Dir == "" {
		return nil, errors.New("uploads dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads dir: %w", err)
	}
	base := cfg.PublicBase
	if base == "" {
		base = "/uploads"
	}
	return &Client{
		dir:        cfg.Dir,
		publicBase: strings.TrimRight(base, "/"),
	}, nil
}

// Dir returns the filesystem directory served at the public base path.
func (c *Client) Dir() string {
	return c.dir
}

// Save writes the content under the given key and returns its public URL.
// Keys must not escape the uploads directory.
func (c *Client) Save(key string, content io.Reader) (string, error) {
	cleaned, err := c.cleanKey(key)
	if err != nil {
		return "", err
	}

	full := filepath.Join(c.dir, filepath.FromSlash(cleaned))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("creating key dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return c.PublicURL(cleaned), nil
}

// Remove deletes the stored object if present.
func (c *Client) Remove(key string) error {
	cleaned, err := c.cleanKey(key)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(c.dir, filepath.FromSlash(cleaned)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}

// PublicURL maps a storage key to the URL clients fetch it from.
func (c *Client) PublicURL(key string) string {
	return c.publicBase + "/" + strings.TrimLeft(key, "/")
}

func (c *Client) cleanKey(key string) (string, error) {
	cleaned := path.Clean(strings.TrimLeft(key, "/"))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return cleaned, nil
}
