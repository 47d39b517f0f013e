/*
Package tls builds the listener TLS configuration for the relay server.

Certificates are loaded from PEM files and polled for changes, so a renewed
certificate is picked up without a restart:

	reloader := tls.NewCertificateReloader(certFile, keyFile, 5*time.Minute, logger)
	if err := reloader.Start(ctx); err != nil {
		return err
	}

	tlsConfig, err := tls.NewServerConfig(cfg.Server.TLS, reloader)

Only TLS 1.2 and 1.3 are accepted. Client certificates are not requested.
*/
package tls
