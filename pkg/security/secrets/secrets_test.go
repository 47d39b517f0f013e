package secrets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEnvProvider_GetSecret(t *testing.T) {
	t.Setenv("AIunclesamAPIkey", "sk-test")

	provider := NewEnvProvider("")
	value, err := provider.GetSecret(context.Background(), "AIunclesamAPIkey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "sk-test" {
		t.Errorf("expected value 'sk-test', got '%s'", value)
	}
}

func TestEnvProvider_CaseSensitive(t *testing.T) {
	t.Setenv("AIunclesamAPIkey", "sk-test")

	_, err := NewEnvProvider("").GetSecret(context.Background(), "AIUNCLESAMAPIKEY")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for differently-cased name, got %v", err)
	}
}

func TestEnvProvider_EmptyIsNotFound(t *testing.T) {
	t.Setenv("AIunclesamAPIkey", "")

	_, err := NewEnvProvider("").GetSecret(context.Background(), "AIunclesamAPIkey")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEnvProvider_Prefix(t *testing.T) {
	t.Setenv("APP_KEY", "v")

	value, err := NewEnvProvider("APP_").GetSecret(context.Background(), "KEY")
	if err != nil || value != "v" {
		t.Fatalf("GetSecret() = %q, %v", value, err)
	}
}

func TestEnvProvider_ReadsEveryCall(t *testing.T) {
	provider := NewEnvProvider("")
	t.Setenv("ROTATING_KEY", "one")

	first, _ := provider.GetSecret(context.Background(), "ROTATING_KEY")
	t.Setenv("ROTATING_KEY", "two")
	second, _ := provider.GetSecret(context.Background(), "ROTATING_KEY")

	if first != "one" || second != "two" {
		t.Errorf("expected fresh reads, got %q then %q", first, second)
	}
}

func writeSecret(t *testing.T, dir, name, value string, perm os.FileMode) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(value), perm); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, perm); err != nil {
		t.Fatal(err)
	}
}

func TestFileProvider(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "AIunclesamAPIkey", "sk-file\n", 0600)
	writeSecret(t, dir, "open", "sk-open", 0644)
	writeSecret(t, dir, "blank", "  \n", 0600)

	provider, err := NewFileProvider(dir)
	if err != nil {
		t.Fatalf("NewFileProvider() error = %v", err)
	}

	tests := []struct {
		name         string
		secret       string
		want         string
		wantNotFound bool
		wantErr      bool
	}{
		{name: "trimmed value", secret: "AIunclesamAPIkey", want: "sk-file"},
		{name: "missing file", secret: "absent", wantNotFound: true},
		{name: "blank file", secret: "blank", wantNotFound: true},
		{name: "world readable", secret: "open", wantErr: true},
		{name: "traversal", secret: "../etc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := provider.GetSecret(context.Background(), tt.secret)
			switch {
			case tt.wantNotFound:
				if !errors.Is(err, ErrNotFound) {
					t.Fatalf("expected ErrNotFound, got %v", err)
				}
			case tt.wantErr:
				if err == nil || errors.Is(err, ErrNotFound) {
					t.Fatalf("expected a non-not-found error, got %v", err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if value != tt.want {
					t.Errorf("GetSecret() = %q, want %q", value, tt.want)
				}
			}
		})
	}
}

func TestNewFileProvider_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "file", "x", 0600)

	if _, err := NewFileProvider(filepath.Join(dir, "file")); err == nil {
		t.Fatal("expected error for non-directory base path")
	}
}

func TestStaticProvider(t *testing.T) {
	provider := NewStaticProvider(map[string]string{"k": "v"})

	if value, err := provider.GetSecret(context.Background(), "k"); err != nil || value != "v" {
		t.Fatalf("GetSecret() = %q, %v", value, err)
	}

	provider.Set("k", "")
	if _, err := provider.GetSecret(context.Background(), "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after removal, got %v", err)
	}
}

type failingProvider struct{}

func (failingProvider) GetSecret(context.Context, string) (string, error) {
	return "", errors.New("backend unavailable")
}

func (failingProvider) Provider() string { return "failing" }

func TestChain(t *testing.T) {
	empty := NewStaticProvider(nil)
	second := NewStaticProvider(map[string]string{"k": "from-second"})

	value, err := NewChain(empty, second).GetSecret(context.Background(), "k")
	if err != nil || value != "from-second" {
		t.Fatalf("GetSecret() = %q, %v", value, err)
	}

	_, err = NewChain(empty).GetSecret(context.Background(), "k")
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Provider != "chain" {
		t.Fatalf("expected chain NotFoundError, got %v", err)
	}

	_, err = NewChain(failingProvider{}, second).GetSecret(context.Background(), "k")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("backend failure should stop the chain, got %v", err)
	}
}
