package health

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/nexus/internal/logger"
)

// CertificateServices are the subdomains whose certificates are checked.
var CertificateServices = []string{"traefik", "grafana", "prometheus"}

// CertResult reports whether a host presented a valid certificate.
type CertResult struct {
	Name     string
	Hostname string
	Valid    bool
	Error    string
}

// ValidateTLS checks that hostname answers over HTTPS with a certificate the
// system trusts. Any HTTP response counts; redirects are not followed.
func ValidateTLS(ctx context.Context, hostname string, timeout time.Duration) error {
	return validateTLS(ctx, "https://"+hostname, timeout, nil)
}

func validateTLS(ctx context.Context, url string, timeout time.Duration, base *tls.Config) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if base != nil {
		tlsConfig = base.Clone()
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 0,
			}).DialContext,
			TLSHandshakeTimeout: timeout,
			TLSClientConfig:     tlsConfig,
			DisableKeepAlives:   true,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to validate TLS: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

// CheckCertificates validates the certificate of every CertificateServices
// subdomain of domain, concurrently.
func (p *Prober) CheckCertificates(ctx context.Context, domain string) []CertResult {
	results := make([]CertResult, len(CertificateServices))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, name := range CertificateServices {
		hostname := name + "." + domain
		g.Go(func() error {
			r := CertResult{Name: name, Hostname: hostname, Valid: true}
			if err := ValidateTLS(ctx, hostname, p.timeout); err != nil {
				r.Valid = false
				r.Error = err.Error()
				p.logger.Warn("certificate check failed",
					logger.String("service", name),
					logger.String("hostname", hostname),
					logger.Error(err))
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()
	return results
}
