package utils

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// DefaultPingTimeout bounds a single reachability probe.
const DefaultPingTimeout = 1500 * time.Millisecond

var defaultPorts = map[string]string{
	"https":  "443",
	"http":   "80",
	"redis":  "6379",
	"rediss": "6379",
	"smtp":   "587",
	"smtps":  "465",
}

// PingService checks whether the host behind serviceURL accepts TCP connections.
func PingService(ctx context.Context, serviceURL string, timeout time.Duration) error {
	parsedURL, err := url.Parse(serviceURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		return fmt.Errorf("invalid URL %q: missing host", serviceURL)
	}

	port := parsedURL.Port()
	if port == "" {
		port = defaultPorts[parsedURL.Scheme]
		if port == "" {
			port = "80"
		}
	}

	return PingAddress(ctx, net.JoinHostPort(host, port), timeout)
}

// PingHostPort checks whether host:port accepts TCP connections.
func PingHostPort(ctx context.Context, host string, port int, timeout time.Duration) error {
	return PingAddress(ctx, net.JoinHostPort(host, strconv.Itoa(port)), timeout)
}

// PingAddress dials address once and closes the connection.
func PingAddress(ctx context.Context, address string, timeout time.Duration) error {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	defer conn.Close()

	return nil
}
