package detection

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// NewHTTPClient builds the HTTP client used to reach the detection service.
// An empty proxyURL dials directly; socks5:// routes through a SOCKS5 proxy;
// http:// and https:// use a CONNECT proxy. A zero timeout means none.
func NewHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}

		switch u.Scheme {
		case "socks5", "socks5h":
			dialer, err := proxy.FromURL(u, &net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
			}
			transport.Proxy = nil
			transport.DialContext = dialContext(dialer)
		case "http", "https":
			transport.Proxy = http.ProxyURL(u)
		default:
			return nil, fmt.Errorf("unsupported proxy scheme: %s", u.Scheme)
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

func dialContext(dialer proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		if dialer == nil {
			return nil, errors.New("no proxy dialer")
		}
		return dialer.Dial(network, addr)
	}
}
