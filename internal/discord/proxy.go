package discord

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	_ "github.com/bdandy/go-socks4"
	"github.com/gorilla/websocket"
	"golang.org/x/net/proxy"
)

const (
	restTimeout      = 20 * time.Second
	handshakeTimeout = 45 * time.Second
)

// proxyTransport builds the REST client and gateway dialer for raw, which
// is an http, https, socks5 or socks4 URL. Voice UDP always goes direct.
func proxyTransport(raw string) (*http.Client, *websocket.Dialer, error) {
	proxyURL, err := url.Parse(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid proxy format: %w", err)
	}

	switch proxyURL.Scheme {
	case "http", "https":
		return &http.Client{
				Timeout:   restTimeout,
				Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)},
			}, &websocket.Dialer{
				Proxy:            http.ProxyURL(proxyURL),
				HandshakeTimeout: handshakeTimeout,
			}, nil

	case "socks5", "socks4", "socks4a":
		dialer, err := proxy.FromURL(proxyURL, &net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 10 * time.Second,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("%s dialer error: %w", proxyURL.Scheme, err)
		}
		dial := contextDial(dialer)
		return &http.Client{
				Timeout:   restTimeout,
				Transport: &http.Transport{DialContext: dial},
			}, &websocket.Dialer{
				NetDialContext:   dial,
				HandshakeTimeout: handshakeTimeout,
			}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported proxy scheme: %q", proxyURL.Scheme)
	}
}

func contextDial(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}
}

// redact hides proxy credentials in log output.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid>"
	}
	return u.Redacted()
}
