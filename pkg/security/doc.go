/*
Package security groups the relay's secret handling and listener TLS.

# Secrets

The upstream credential is resolved on every invocation through a chain of
providers, so a rotated key takes effect without a restart:

	files, err := secrets.NewFileProvider("/run/secrets")
	if err != nil {
		return err
	}
	source := secrets.NewChain(secrets.NewEnvProvider(""), files)

	apiKey, err := source.GetSecret(ctx, "AIunclesamAPIkey")

# TLS

The server can terminate TLS itself. The certificate files are polled and
reloaded when they change:

	reloader := tls.NewCertificateReloader(certFile, keyFile, 5*time.Minute, logger)
	if err := reloader.Start(ctx); err != nil {
		return err
	}
	tlsConfig, err := tls.NewServerConfig(cfg.Server.TLS, reloader)
*/
package security
