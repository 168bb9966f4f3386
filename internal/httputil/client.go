package httputil

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// The connect budget (DialTimeout + TLSHandshakeTimeout) stays under
// DefaultTimeout so a connect timeout surfaces as a DialError rather than as
// the client's whole-request timeout, which discards the error chain.
const (
	DefaultTimeout      = 30 * time.Second
	DialTimeout         = 10 * time.Second
	TLSHandshakeTimeout = 10 * time.Second
)

// DialFunc opens a raw connection.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Config tunes NewClientWithConfig. Zero values take the package defaults.
type Config struct {
	Timeout             time.Duration
	DialTimeout         time.Duration
	TLSHandshakeTimeout time.Duration
	TLSConfig           *tls.Config
	Dial                DialFunc
}

func (c Config) withDefaults() Config {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = DialTimeout
	}
	if c.TLSHandshakeTimeout == 0 {
		c.TLSHandshakeTimeout = TLSHandshakeTimeout
	}
	if c.Dial == nil {
		nd := &net.Dialer{KeepAlive: 30 * time.Second}
		c.Dial = nd.DialContext
	}
	return c
}

// ConnectBudget is the longest a connection attempt may take.
func (c Config) ConnectBudget() time.Duration {
	c = c.withDefaults()
	return c.DialTimeout + c.TLSHandshakeTimeout
}

// DialError marks a failure to establish a connection: the dial itself, a
// dial timeout, or a TLS handshake that timed out. Failures after the
// connection is up, and cancellation by the caller, are never wrapped in a
// DialError.
type DialError struct {
	Addr string
	Err  error
}

func (e *DialError) Error() string {
	return fmt.Sprintf("dial %s: %v", e.Addr, e.Err)
}

func (e *DialError) Unwrap() error { return e.Err }

// NewClient returns an HTTP client with standard timeout configuration.
func NewClient() *http.Client {
	return NewClientWithConfig(Config{})
}

// NewClientWithConfig returns an HTTP client built from cfg.
func NewClientWithConfig(cfg Config) *http.Client {
	cfg = cfg.withDefaults()
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: NewTransport(cfg),
	}
}

// NewTransport returns a transport whose dial and TLS handshake failures are
// reported as *DialError.
//
// Direct https connections use a custom TLS dial, so they speak HTTP/1.1
// only. Requests through an https proxy from the environment skip that dial:
// the transport does its own handshake with cfg.TLSConfig, and a handshake
// timeout there is not a DialError.
func NewTransport(cfg Config) *http.Transport {
	cfg = cfg.withDefaults()
	d := &dialer{
		dial:             cfg.Dial,
		dialTimeout:      cfg.DialTimeout,
		handshakeTimeout: cfg.TLSHandshakeTimeout,
		tlsConfig:        cfg.TLSConfig,
	}
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         d.dialContext,
		DialTLSContext:      d.dialTLS,
		TLSClientConfig:     cfg.TLSConfig,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
	}
}

type dialer struct {
	dial             DialFunc
	dialTimeout      time.Duration
	handshakeTimeout time.Duration
	tlsConfig        *tls.Config
}

func (d *dialer) dialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, d.dialTimeout)
	defer cancel()

	conn, err := d.dial(dialCtx, network, addr)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, fmt.Errorf("dial %s: %w", addr, err)
		}
		return nil, &DialError{Addr: addr, Err: err}
	}
	return conn, nil
}

func (d *dialer) dialTLS(ctx context.Context, network, addr string) (net.Conn, error) {
	conn, err := d.dialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	cfg := &tls.Config{}
	if d.tlsConfig != nil {
		cfg = d.tlsConfig.Clone()
	}
	if cfg.ServerName == "" {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}
		cfg.ServerName = host
	}

	hsCtx, cancel := context.WithTimeout(ctx, d.handshakeTimeout)
	defer cancel()

	tlsConn := tls.Client(conn, cfg)
	if err := tlsConn.HandshakeContext(hsCtx); err != nil {
		conn.Close()
		// Only a handshake that never completed counts as a connect failure;
		// certificate and protocol errors are left for the caller.
		if !errors.Is(ctx.Err(), context.Canceled) &&
			(isTimeout(err) || errors.Is(hsCtx.Err(), context.DeadlineExceeded)) {
			return nil, &DialError{Addr: addr, Err: err}
		}
		return nil, fmt.Errorf("tls handshake %s: %w", addr, err)
	}
	return tlsConn, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
