package utils

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"
)

var defaultPorts = map[string]string{
	"http":     "80",
	"https":    "443",
	"redis":    "6379",
	"postgres": "5432",
	"mysql":    "3306",
}

// PingService checks that something accepts TCP connections at serviceURL
func PingService(ctx context.Context, serviceURL string) error {
	parsedURL, err := url.Parse(serviceURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	port := parsedURL.Port()
	if port == "" {
		var ok bool
		if port, ok = defaultPorts[parsedURL.Scheme]; !ok {
			return fmt.Errorf("no port in %q", serviceURL)
		}
	}
	address := net.JoinHostPort(parsedURL.Hostname(), port)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return conn.Close()
}

// PingServer checks that the local HTTP server accepts connections on port
func PingServer(ctx context.Context, port string) error {
	ctx, cancel := context.WithTimeout(ctx, 1500*time.Millisecond)
	defer cancel()
	return PingService(ctx, "http://127.0.0.1:"+port)
}
