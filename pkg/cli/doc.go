/*
Package cli provides helpers shared by the chatrelay commands: typed
errors with exit codes, output formatters and signal handling.

Output Formatting:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, resp); err != nil {
		return err
	}

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
