package client

import (
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	httpclient "github.com/appleboy/go-httpclient"
)

// CreateHTTPClient creates the HTTP client used to call the identity service.
// Application credentials are set per request, so the client itself carries
// no authentication mode.
func CreateHTTPClient(timeout time.Duration, insecureSkipVerify bool) (*http.Client, error) {
	client, err := httpclient.NewClient(
		httpclient.WithTimeout(timeout),
		httpclient.WithTransport(CreateTransport(insecureSkipVerify)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	return client, nil
}

// CreateTransport returns a transport with TLS verification controlled by
// insecureSkipVerify.
func CreateTransport(insecureSkipVerify bool) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	// #nosec G402 -- InsecureSkipVerify is user-configurable for development/testing
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: insecureSkipVerify,
	}
	return transport
}

// BasicAuthorization returns the Authorization header value for HTTP Basic
// authentication: "Basic " + base64(name ":" password).
func BasicAuthorization(name, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(name+":"+password))
}
