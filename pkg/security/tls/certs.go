package tls

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
	"time"
)

// ExpiryWarningDays is the remaining lifetime below which a loaded
// certificate is logged as expiring soon.
const ExpiryWarningDays = 30

// ValidateCertificate parses the leaf of cert and checks its validity window.
func ValidateCertificate(cert *tls.Certificate) (*x509.Certificate, error) {
	if cert == nil {
		return nil, fmt.Errorf("certificate is nil")
	}
	if len(cert.Certificate) == 0 {
		return nil, fmt.Errorf("certificate chain is empty")
	}

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	if err := validateValidity(leaf, time.Now()); err != nil {
		return nil, err
	}
	return leaf, nil
}

func validateValidity(cert *x509.Certificate, now time.Time) error {
	if now.Before(cert.NotBefore) {
		return fmt.Errorf("certificate is not yet valid (valid from %s)", cert.NotBefore.Format(time.RFC3339))
	}
	if now.After(cert.NotAfter) {
		return fmt.Errorf("certificate expired on %s", cert.NotAfter.Format(time.RFC3339))
	}
	return nil
}

// DaysUntilExpiry returns the whole days left before cert expires and
// whether that is under ExpiryWarningDays.
func DaysUntilExpiry(cert *x509.Certificate, now time.Time) (days int, expiringSoon bool) {
	days = int(cert.NotAfter.Sub(now).Hours() / 24)
	return days, days < ExpiryWarningDays
}

// LoadCertificateFile parses the first PEM certificate in path.
func LoadCertificateFile(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, fmt.Errorf("no PEM certificate in %s", path)
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}
	return cert, nil
}

// ValidateCertificateChain verifies cert for server use against the CAs in caPool.
func ValidateCertificateChain(cert *x509.Certificate, caPool *x509.CertPool) error {
	opts := x509.VerifyOptions{
		Roots:     caPool,
		KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	if _, err := cert.Verify(opts); err != nil {
		return fmt.Errorf("certificate chain validation failed: %w", err)
	}
	return nil
}

// CertificateInfo is the printable summary of a certificate.
type CertificateInfo struct {
	Subject            string    `json:"subject"`
	Issuer             string    `json:"issuer"`
	SerialNumber       string    `json:"serial_number"`
	NotBefore          time.Time `json:"not_before"`
	NotAfter           time.Time `json:"not_after"`
	DaysUntilExpiry    int       `json:"days_until_expiry"`
	DNSNames           []string  `json:"dns_names,omitempty"`
	IPAddresses        []string  `json:"ip_addresses,omitempty"`
	SignatureAlgorithm string    `json:"signature_algorithm"`
	PublicKeyAlgorithm string    `json:"public_key_algorithm"`
}

// ExtractCertificateInfo summarizes cert as of now.
func ExtractCertificateInfo(cert *x509.Certificate, now time.Time) *CertificateInfo {
	days, _ := DaysUntilExpiry(cert, now)
	info := &CertificateInfo{
		Subject:            cert.Subject.String(),
		Issuer:             cert.Issuer.String(),
		SerialNumber:       fmt.Sprintf("%x", cert.SerialNumber),
		NotBefore:          cert.NotBefore,
		NotAfter:           cert.NotAfter,
		DaysUntilExpiry:    days,
		DNSNames:           cert.DNSNames,
		SignatureAlgorithm: cert.SignatureAlgorithm.String(),
		PublicKeyAlgorithm: cert.PublicKeyAlgorithm.String(),
	}
	for _, ip := range cert.IPAddresses {
		info.IPAddresses = append(info.IPAddresses, ip.String())
	}
	return info
}

func (i *CertificateInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", i.Subject)
	fmt.Fprintf(&b, "Issuer: %s\n", i.Issuer)
	fmt.Fprintf(&b, "Serial: %s\n", i.SerialNumber)
	fmt.Fprintf(&b, "Valid From: %s\n", i.NotBefore.Format(time.RFC3339))
	fmt.Fprintf(&b, "Valid Until: %s (%d days)\n", i.NotAfter.Format(time.RFC3339), i.DaysUntilExpiry)
	if len(i.DNSNames) > 0 {
		fmt.Fprintf(&b, "SANs (DNS): %s\n", strings.Join(i.DNSNames, ", "))
	}
	if len(i.IPAddresses) > 0 {
		fmt.Fprintf(&b, "SANs (IP): %s\n", strings.Join(i.IPAddresses, ", "))
	}
	fmt.Fprintf(&b, "Signature Algorithm: %s\n", i.SignatureAlgorithm)
	fmt.Fprintf(&b, "Public Key Algorithm: %s", i.PublicKeyAlgorithm)
	return b.String()
}
