package main

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"chatrelay/pkg/cli"
	"chatrelay/pkg/config"
	relaytls "chatrelay/pkg/security/tls"
)

var certsCmd = &cobra.Command{
	Use:   "certs",
	Short: "Inspect the server's TLS certificates",
	Long: `Inspect the TLS certificate used when server.tls.enabled is set.

Subcommands:
  validate - Check that a certificate and key can be served
  info     - Display certificate details`,
}

var certsValidateFlags struct {
	certFile string
	keyFile  string
	caFile   string
}

var certsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate certificate and key",
	Long: `Validate a TLS certificate and private key.

Without --cert and --key the files named by server.tls in the config are
checked. The certificate must match the key and be within its validity
window. With --ca the chain is verified for server use as well.

Examples:
  chatrelay certs validate --config chatrelay.yaml
  chatrelay certs validate --cert server.crt --key server.key --ca ca.pem`,
	RunE: runCertsValidate,
}

var certsInfoFlags struct {
	output string
}

var certsInfoCmd = &cobra.Command{
	Use:   "info <cert-file>",
	Short: "Display certificate details",
	Args:  cobra.ExactArgs(1),
	RunE:  runCertsInfo,
}

func init() {
	rootCmd.AddCommand(certsCmd)
	certsCmd.AddCommand(certsValidateCmd, certsInfoCmd)

	certsValidateCmd.Flags().StringVar(&certsValidateFlags.certFile, "cert", "", "certificate file (default server.tls.cert_file)")
	certsValidateCmd.Flags().StringVar(&certsValidateFlags.keyFile, "key", "", "private key file (default server.tls.key_file)")
	certsValidateCmd.Flags().StringVar(&certsValidateFlags.caFile, "ca", "", "CA certificate file")

	certsInfoCmd.Flags().StringVarP(&certsInfoFlags.output, "output", "o", "text", "output format (text, json)")
}

func runCertsValidate(cmd *cobra.Command, args []string) error {
	certFile, keyFile := certsValidateFlags.certFile, certsValidateFlags.keyFile
	if certFile == "" || keyFile == "" {
		cfg, err := config.LoadOrDefault(cfgFile)
		if err != nil {
			return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
		}
		if certFile == "" {
			certFile = cfg.Server.TLS.CertFile
		}
		if keyFile == "" {
			keyFile = cfg.Server.TLS.KeyFile
		}
	}
	if certFile == "" || keyFile == "" {
		return cli.NewConfigError("server.tls", "certificate and key files are required")
	}

	return validateCertificate(cmd, certFile, keyFile, certsValidateFlags.caFile)
}

func validateCertificate(cmd *cobra.Command, certFile, keyFile, caFile string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating certificate: %s\n\n", certFile)

	pair, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		fmt.Fprintln(out, "✗ Certificate and key do NOT match")
		return cli.NewCommandError("certs validate", err)
	}
	fmt.Fprintln(out, "✓ Certificate and key match")

	leaf, err := relaytls.ValidateCertificate(&pair)
	if err != nil {
		fmt.Fprintln(out, "✗ Certificate is not currently valid")
		return cli.NewCommandError("certs validate", err)
	}
	fmt.Fprintf(out, "✓ Certificate not expired (valid until %s)\n", leaf.NotAfter.Format("2006-01-02"))

	if days, soon := relaytls.DaysUntilExpiry(leaf, time.Now()); soon {
		fmt.Fprintf(out, "⚠  Certificate expires in %d days\n", days)
	}

	if caFile != "" {
		if err := validateChain(leaf, caFile); err != nil {
			fmt.Fprintln(out, "✗ Certificate chain invalid")
			return cli.NewCommandError("certs validate", err)
		}
		fmt.Fprintln(out, "✓ Certificate chain valid")
	}

	return nil
}

func validateChain(cert *x509.Certificate, caFile string) error {
	caPEM, err := os.ReadFile(caFile)
	if err != nil {
		return fmt.Errorf("failed to read CA certificate: %w", err)
	}

	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caPEM) {
		return fmt.Errorf("failed to parse CA certificate")
	}
	return relaytls.ValidateCertificateChain(cert, caPool)
}

func runCertsInfo(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(certsInfoFlags.output)
	if err != nil {
		return err
	}

	cert, err := relaytls.LoadCertificateFile(args[0])
	if err != nil {
		return cli.NewCommandError("certs info", err)
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), relaytls.ExtractCertificateInfo(cert, time.Now()))
}
