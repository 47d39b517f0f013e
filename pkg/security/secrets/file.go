package secrets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileProvider loads secrets from individual files in a directory, the
// layout used by Docker and Kubernetes secret mounts.
//
// Files are read on every call. Files readable by group or others are
// rejected.
type FileProvider struct {
	BasePath string // Directory containing secret files
}

// NewFileProvider creates a file-based secret provider rooted at basePath.
func NewFileProvider(basePath string) (*FileProvider, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat base path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base path is not a directory: %s", basePath)
	}

	return &FileProvider{BasePath: basePath}, nil
}

// GetSecret reads "<BasePath>/<name>" and returns its trimmed contents.
func (p *FileProvider) GetSecret(ctx context.Context, name string) (string, error) {
	if name == "" || strings.ContainsRune(name, filepath.Separator) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid secret name %q", name)
	}

	path := filepath.Join(p.BasePath, name)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &NotFoundError{Provider: p.Provider(), Name: name}
		}
		return "", fmt.Errorf("failed to stat secret file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("secret path is not a regular file: %s", name)
	}

	if mode := info.Mode().Perm(); mode&0o077 != 0 {
		return "", fmt.Errorf("insecure permissions on %s: %o (expected 0600 or 0400)", path, mode)
	}

	// #nosec G304 - name is a single path element under BasePath
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", &NotFoundError{Provider: p.Provider(), Name: name}
	}

	return value, nil
}

// Provider returns the provider name.
func (p *FileProvider) Provider() string {
	return "file"
}
