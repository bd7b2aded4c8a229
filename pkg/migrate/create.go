package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var migrationNameRe = regexp.MustCompile(`[^a-z0-9_]+`)

func sanitizeMigrationName(name string) (string, error) {
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = migrationNameRe.ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}
	return safe, nil
}

// CreateSQLMigration writes an empty goose migration under dir as
// <YYYYMMDDHHMMSS>_<name>.sql and returns its path. An existing file at
// that path is an error, never overwritten.
func CreateSQLMigration(dir string, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	if name == "" {
		return "", fmt.Errorf("name is required")
	}

	safe, err := sanitizeMigrationName(name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	version := time.Now().UTC().Format("20060102150405")
	fullpath := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", version, safe))

	if _, err := os.Stat(fullpath); err == nil {
		return "", fmt.Errorf("migration already exists: %s", fullpath)
	}

	template := fmt.Sprintf(`-- +goose Up
-- +goose StatementBegin
-- %s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %s
-- +goose StatementEnd
`, safe, safe)

	if err := os.WriteFile(fullpath, []byte(template), 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", fullpath, err)
	}

	return fullpath, nil
}
