package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateTLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	}))
	defer srv.Close()

	trusted := srv.Client().Transport.(*http.Transport).TLSClientConfig

	assert.NoError(t, validateTLS(context.Background(), srv.URL, time.Second, trusted))
	assert.Error(t, validateTLS(context.Background(), srv.URL, time.Second, nil), "self-signed certificate is rejected")
}

func TestValidateTLSPlainHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	// Speaking TLS to a plain listener fails the handshake.
	url := "https" + srv.URL[len("http"):]
	assert.Error(t, validateTLS(context.Background(), url, time.Second, nil))
}
