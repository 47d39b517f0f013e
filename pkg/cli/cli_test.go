package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"config", NewConfigError("relay.model", "required"), ExitConfigError},
		{"wrapped config", fmt.Errorf("load: %w", NewConfigError("", "bad")), ExitConfigError},
		{"command", NewCommandError("invoke", errors.New("boom")), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	if got := NewConfigError("output", "bad").Error(); got != "config error in output: bad" {
		t.Errorf("ConfigError = %q", got)
	}
	if got := NewConfigError("", "bad").Error(); got != "config error: bad" {
		t.Errorf("ConfigError without field = %q", got)
	}

	inner := errors.New("boom")
	cmdErr := NewCommandError("serve", inner)
	if !errors.Is(cmdErr, inner) {
		t.Error("CommandError does not unwrap")
	}
}

func TestParseOutputFormat(t *testing.T) {
	for in, want := range map[string]OutputFormat{"": FormatText, "text": FormatText, "json": FormatJSON} {
		got, err := ParseOutputFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseOutputFormat("csv"); ExitCode(err) != ExitConfigError {
		t.Errorf("expected config error for csv, got %v", err)
	}
}

type stringer struct{}

func (stringer) String() string { return "rendered" }

func TestFormatters(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatText).FormatTo(&buf, stringer{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "rendered\n" {
		t.Errorf("text = %q", buf.String())
	}

	buf.Reset()
	if err := NewFormatter(FormatJSON).FormatTo(&buf, map[string]string{"message": "<b>"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\n  \"message\": \"<b>\"\n}\n" {
		t.Errorf("json = %q", buf.String())
	}
}

func TestSetupSignalHandler(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := SetupSignalHandler(parent)
	defer stop()

	cancel()
	<-ctx.Done()
}

func TestSetupSignalHandler_SIGTERM(t *testing.T) {
	ctx, stop := SetupSignalHandler(context.Background())
	defer stop()

	if err := syscall.Kill(os.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("kill: %v", err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled on SIGTERM")
	}
}
