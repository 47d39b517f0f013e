package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"chatrelay/pkg/cli"
	"chatrelay/pkg/config"
	"chatrelay/pkg/relay"
	"chatrelay/pkg/security/secrets"
	"chatrelay/pkg/telemetry/logging"
	"chatrelay/pkg/telemetry/tracing"
)

var invokeFlags struct {
	method string
	prompt string
	body   string
	event  string
	apiKey string
	output string
}

var invokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Run the chatbot function once and print the response",
	Long: `Run the chatbot function once against the configured upstream, the way a
serverless platform would invoke it, and print the response.

The request comes from exactly one of --prompt, --body or --event. An event
is a JSON object {"httpMethod", "body", "isBase64Encoded", "headers"} read
from a file, or from stdin with --event -.

Examples:
  chatrelay invoke --prompt "What is Netlify?"
  chatrelay invoke --body '{"prompt": "Hi"}' --api-key sk-or-...
  chatrelay invoke --method GET
  echo '{"httpMethod":"POST","body":"{\"prompt\":\"Hi\"}"}' | chatrelay invoke --event -`,
	RunE: runInvoke,
}

func init() {
	rootCmd.AddCommand(invokeCmd)

	invokeCmd.Flags().StringVarP(&invokeFlags.method, "method", "X", "POST", "HTTP method of the invocation")
	invokeCmd.Flags().StringVarP(&invokeFlags.prompt, "prompt", "p", "", "prompt to send as {\"prompt\": ...}")
	invokeCmd.Flags().StringVarP(&invokeFlags.body, "body", "d", "", "raw request body")
	invokeCmd.Flags().StringVarP(&invokeFlags.event, "event", "e", "", "function event JSON file, or - for stdin")
	invokeCmd.Flags().StringVar(&invokeFlags.apiKey, "api-key", "", "upstream API key, consulted before the environment")
	invokeCmd.Flags().StringVarP(&invokeFlags.output, "output", "o", "json", "output format (json, text)")
	invokeCmd.MarkFlagsMutuallyExclusive("prompt", "body", "event")
}

func runInvoke(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(invokeFlags.output)
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	req, err := buildInvokeRequest(invokeFlags.method, invokeFlags.prompt, invokeFlags.body, invokeFlags.event, cmd.InOrStdin())
	if err != nil {
		return err
	}

	logCfg := logging.FromConfig(cfg.Telemetry.Logging)
	logCfg.Writer = cmd.ErrOrStderr()
	logger, err := logging.New(logCfg)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	var extra []secrets.Provider
	if invokeFlags.apiKey != "" {
		extra = append(extra, secrets.NewStaticProvider(map[string]string{cfg.Relay.CredentialEnv: invokeFlags.apiKey}))
	}
	secretSource, err := newSecretSource(cfg, extra...)
	if err != nil {
		return cli.NewConfigError("relay.secrets_dir", err.Error())
	}

	resp, err := invoke(cmd.Context(), cfg, req, secretSource, logger)
	if err != nil {
		return err
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), resp)
}

// invoke runs one relay invocation with the configured upstream and tracer.
func invoke(ctx context.Context, cfg *config.Config, req relay.Request, secretSource relay.SecretSource, logger *logging.Logger) (relay.Response, error) {
	upstream, err := newUpstream(cfg)
	if err != nil {
		return relay.Response{}, cli.NewConfigError("upstream", err.Error())
	}
	defer upstream.Close()

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return relay.Response{}, cli.NewConfigError("telemetry.tracing", err.Error())
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tracer.Shutdown(flushCtx)
	}()

	handler := relay.NewHandler(relay.OptionsFromConfig(cfg), upstream, secretSource, logger, nil, tracer)
	return handler.Handle(ctx, req), nil
}

// buildInvokeRequest assembles the invocation from the command flags.
func buildInvokeRequest(method, prompt, body, event string, stdin io.Reader) (relay.Request, error) {
	if event != "" {
		return readEvent(event, stdin)
	}

	req := relay.Request{HTTPMethod: method, Body: body}
	if prompt != "" {
		encoded, err := json.Marshal(map[string]string{"prompt": prompt})
		if err != nil {
			return relay.Request{}, fmt.Errorf("failed to encode prompt: %w", err)
		}
		req.Body = string(encoded)
	}
	return req, nil
}

func readEvent(path string, stdin io.Reader) (relay.Request, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		// #nosec G304 - path is supplied by the operator
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return relay.Request{}, cli.NewConfigError("event", fmt.Sprintf("failed to read event: %v", err))
	}

	var req relay.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return relay.Request{}, cli.NewConfigError("event", fmt.Sprintf("invalid event JSON: %v", err))
	}
	return req, nil
}
