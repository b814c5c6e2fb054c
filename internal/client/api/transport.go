package api

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// bearerTransport attaches the session token to outgoing requests, but only
// while the token is unexpired.
type bearerTransport struct {
	sess TokenSource
	next http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.sess == nil {
		return t.next.RoundTrip(req)
	}
	tok, ok := t.sess.Token()
	if !ok || !t.sess.IsLogged() {
		return t.next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+tok)
	return t.next.RoundTrip(r)
}

// loggingTransport tags each request with an X-Request-ID and logs its outcome.
type loggingTransport struct {
	log  *zap.Logger
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req
	id := req.Header.Get("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
		r = req.Clone(req.Context())
		r.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(r)
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", id),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		t.log.Warn("request failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	t.log.Info("request", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}

// NewHTTPClient builds an http.Client with the given timeout that trusts only
// the CA bundle at caFile. An empty caFile uses the system roots.
func NewHTTPClient(caFile string, timeout time.Duration) (*http.Client, error) {
	if caFile == "" {
		return &http.Client{Timeout: timeout}, nil
	}
	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA cert: %w", err)
	}
	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caCert) {
		return nil, errors.New("failed to parse CA cert")
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		RootCAs:    caPool,
		MinVersion: tls.VersionTLS12,
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}
