package tls

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"chatrelay/pkg/telemetry/logging"
)

// CertificateReloader serves a certificate loaded from disk and reloads it
// when the certificate or key file changes.
type CertificateReloader struct {
	certFile string
	keyFile  string
	interval time.Duration
	logger   *logging.Logger

	mu       sync.RWMutex
	cert     *tls.Certificate
	leaf     *x509.Certificate
	certTime time.Time
	keyTime  time.Time
}

// NewCertificateReloader creates a reloader polling every interval.
func NewCertificateReloader(certFile, keyFile string, interval time.Duration, logger *logging.Logger) *CertificateReloader {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &CertificateReloader{
		certFile: certFile,
		keyFile:  keyFile,
		interval: interval,
		logger:   logger,
	}
}

// Start loads the certificate and polls for changes until ctx is done.
// A failed initial load is returned; later failures are logged and the
// previous certificate stays in service.
func (r *CertificateReloader) Start(ctx context.Context) error {
	if err := r.Reload(); err != nil {
		return err
	}
	r.logCertificateInfo()

	if r.interval > 0 {
		go r.reloadLoop(ctx)
	}
	return nil
}

func (r *CertificateReloader) reloadLoop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !r.needsReload() {
				continue
			}
			if err := r.Reload(); err != nil {
				r.logger.Error("failed to reload certificate",
					"error", err,
					"cert_file", r.certFile,
					"key_file", r.keyFile,
				)
				continue
			}
			r.logger.Info("certificate reloaded", "cert_file", r.certFile)
			r.logCertificateInfo()

		case <-ctx.Done():
			return
		}
	}
}

func (r *CertificateReloader) needsReload() bool {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return false
	}
	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return !certInfo.ModTime().Equal(r.certTime) || !keyInfo.ModTime().Equal(r.keyTime)
}

// Reload reads the certificate and key from disk and swaps them in if they
// form a currently valid pair.
func (r *CertificateReloader) Reload() error {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return fmt.Errorf("certificate file: %w", err)
	}
	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return fmt.Errorf("key file: %w", err)
	}

	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load certificate: %w", err)
	}

	leaf, err := ValidateCertificate(&cert)
	if err != nil {
		return fmt.Errorf("certificate validation failed: %w", err)
	}

	r.mu.Lock()
	r.cert = &cert
	r.leaf = leaf
	r.certTime = certInfo.ModTime()
	r.keyTime = keyInfo.ModTime()
	r.mu.Unlock()

	return nil
}

// Certificate returns the certificate in service, or nil before the first load.
func (r *CertificateReloader) Certificate() *tls.Certificate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert
}

// GetCertificateFunc adapts the reloader to tls.Config.GetCertificate.
func (r *CertificateReloader) GetCertificateFunc() func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
		cert := r.Certificate()
		if cert == nil {
			return nil, errors.New("no certificate loaded")
		}
		return cert, nil
	}
}

func (r *CertificateReloader) logCertificateInfo() {
	r.mu.RLock()
	leaf := r.leaf
	r.mu.RUnlock()
	if leaf == nil {
		return
	}

	days, soon := DaysUntilExpiry(leaf, time.Now())
	if soon {
		r.logger.Warn("certificate expiring soon",
			"subject", leaf.Subject.CommonName,
			"expires_in_days", days,
			"expires_at", leaf.NotAfter.Format(time.RFC3339),
		)
		return
	}
	r.logger.Info("certificate loaded",
		"subject", leaf.Subject.CommonName,
		"issuer", leaf.Issuer.CommonName,
		"expires_in_days", days,
		"expires_at", leaf.NotAfter.Format(time.RFC3339),
	)
}
