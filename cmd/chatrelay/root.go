package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chatrelay/pkg/cli"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "chatrelay",
	Short: "chatrelay - chatbot function relaying prompts to OpenRouter",
	Long: `chatrelay hosts a single chatbot function. A POST with {"prompt": "..."}
is forwarded to the OpenRouter chat-completion API with a server-held
credential, and the reply comes back as {"message": "..."}.

The credential is read from the AIunclesamAPIkey environment variable on
every invocation.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the code matching the error.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults plus CHATRELAY_* environment when empty or missing)")
}
