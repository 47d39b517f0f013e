package tls

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"os"
	"testing"
	"time"

	"chatrelay/internal/testcerts"
	"chatrelay/pkg/config"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{"", tls.VersionTLS13, false},
		{"1.3", tls.VersionTLS13, false},
		{"1.2", tls.VersionTLS12, false},
		{"1.1", 0, true},
		{"tls1.3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVersion(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %x, want %x", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseCipherSuites(t *testing.T) {
	suites, err := ParseCipherSuites(nil)
	if err != nil || suites != nil {
		t.Fatalf("empty list: got %v, %v", suites, err)
	}

	suites, err = ParseCipherSuites([]string{"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suites) != 1 || suites[0] != tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256 {
		t.Errorf("suites = %v", suites)
	}

	if _, err := ParseCipherSuites([]string{"TLS_RSA_WITH_RC4_128_SHA"}); err == nil {
		t.Error("expected error for insecure suite")
	}
}

func TestValidateCertificate(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name      string
		notBefore time.Time
		notAfter  time.Time
		wantErr   bool
	}{
		{"valid", now.Add(-time.Hour), now.Add(time.Hour), false},
		{"expired", now.Add(-48 * time.Hour), now.Add(-24 * time.Hour), true},
		{"not yet valid", now.Add(24 * time.Hour), now.Add(48 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair := testcerts.Write(t, t.TempDir(), "relay.test", tt.notBefore, tt.notAfter)
			cert, err := tls.LoadX509KeyPair(pair.CertFile, pair.KeyFile)
			if err != nil {
				t.Fatalf("load: %v", err)
			}

			leaf, err := ValidateCertificate(&cert)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateCertificate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && leaf.Subject.CommonName != "relay.test" {
				t.Errorf("leaf CN = %q", leaf.Subject.CommonName)
			}
		})
	}

	if _, err := ValidateCertificate(nil); err == nil {
		t.Error("expected error for nil certificate")
	}
	if _, err := ValidateCertificate(&tls.Certificate{}); err == nil {
		t.Error("expected error for empty chain")
	}
}

func TestDaysUntilExpiry(t *testing.T) {
	now := time.Now()
	cert := &x509.Certificate{NotAfter: now.Add(10*24*time.Hour + time.Hour)}
	days, soon := DaysUntilExpiry(cert, now)
	if days != 10 || !soon {
		t.Errorf("got %d, %v; want 10, true", days, soon)
	}

	cert.NotAfter = now.Add(90 * 24 * time.Hour)
	if _, soon := DaysUntilExpiry(cert, now); soon {
		t.Error("90 days should not be expiring soon")
	}
}

func TestCertificateReloader_StartErrors(t *testing.T) {
	dir := t.TempDir()
	r := NewCertificateReloader(dir+"/missing.pem", dir+"/missing-key.pem", 0, nil)
	if err := r.Start(context.Background()); err == nil {
		t.Fatal("expected error for missing files")
	}

	if _, err := r.GetCertificateFunc()(&tls.ClientHelloInfo{}); err == nil {
		t.Error("expected error before a certificate is loaded")
	}

	now := time.Now()
	expired := testcerts.Write(t, dir, "old", now.Add(-48*time.Hour), now.Add(-time.Hour))
	r = NewCertificateReloader(expired.CertFile, expired.KeyFile, 0, nil)
	if err := r.Start(context.Background()); err == nil {
		t.Fatal("expected error for expired certificate")
	}
}

func TestCertificateReloader_PicksUpRenewal(t *testing.T) {
	dir := t.TempDir()
	first := testcerts.WriteValid(t, dir, "first")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewCertificateReloader(first.CertFile, first.KeyFile, 10*time.Millisecond, nil)
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if cn := leafCN(t, r.Certificate()); cn != "first" {
		t.Fatalf("initial CN = %q", cn)
	}

	second := testcerts.WriteValid(t, dir, "second")
	future := time.Now().Add(time.Minute)
	for _, f := range []string{second.CertFile, second.KeyFile} {
		if err := os.Chtimes(f, future, future); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if leafCN(t, r.Certificate()) == "second" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("renewed certificate was not picked up")
}

func TestCertificateReloader_KeepsCertificateOnBadReload(t *testing.T) {
	dir := t.TempDir()
	pair := testcerts.WriteValid(t, dir, "good")

	r := NewCertificateReloader(pair.CertFile, pair.KeyFile, 0, nil)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := os.WriteFile(pair.CertFile, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if cn := leafCN(t, r.Certificate()); cn != "good" {
		t.Errorf("CN after failed reload = %q", cn)
	}
}

func TestNewServerConfig_Handshake(t *testing.T) {
	pair := testcerts.WriteValid(t, t.TempDir(), "localhost")
	r := NewCertificateReloader(pair.CertFile, pair.KeyFile, 0, nil)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	serverCfg, err := NewServerConfig(config.TLSConfig{MinVersion: "1.2"}, r)
	if err != nil {
		t.Fatalf("NewServerConfig() error = %v", err)
	}
	if serverCfg.MinVersion != tls.VersionTLS12 {
		t.Errorf("MinVersion = %x", serverCfg.MinVersion)
	}

	ln, err := tls.Listen("tcp", "127.0.0.1:0", serverCfg)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.(*tls.Conn).Handshake()
	}()

	conn, err := tls.Dial("tcp", ln.Addr().String(), &tls.Config{
		RootCAs:    pair.Pool(),
		ServerName: "localhost",
		MinVersion: tls.VersionTLS12,
	})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if cn := conn.ConnectionState().PeerCertificates[0].Subject.CommonName; cn != "localhost" {
		t.Errorf("peer CN = %q", cn)
	}
}

func TestNewServerConfig_Errors(t *testing.T) {
	if _, err := NewServerConfig(config.TLSConfig{}, nil); err == nil {
		t.Error("expected error without reloader")
	}

	r := NewCertificateReloader("c", "k", 0, nil)
	if _, err := NewServerConfig(config.TLSConfig{MinVersion: "1.0"}, r); err == nil {
		t.Error("expected error for TLS 1.0")
	}
	if _, err := NewServerConfig(config.TLSConfig{CipherSuites: []string{"bogus"}}, r); err == nil {
		t.Error("expected error for unknown suite")
	}
}

func leafCN(t *testing.T, cert *tls.Certificate) string {
	t.Helper()
	if cert == nil {
		t.Fatal("no certificate loaded")
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return leaf.Subject.CommonName
}
