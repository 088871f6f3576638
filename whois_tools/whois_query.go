package whois_tools

import (
	"bytes"
	"context"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/KincaidYang/whoisresolver/utils"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/net/proxy"
	"golang.org/x/time/rate"
)

// DefaultPort is the well known WHOIS port.
const DefaultPort = 43

// DefaultTimeout bounds a whole exchange, connect included.
const DefaultTimeout = 10 * time.Second

// MaxResponseSize caps the bytes read from a single server.
const MaxResponseSize = 1 << 20

// ProxyConfig routes selected queries through a SOCKS5 proxy.
type ProxyConfig struct {
	Server   string
	Username string
	Password string
	// Suffixes lists the TLDs whose queries go through the proxy.
	Suffixes []string
}

// Options configures a Client. The zero value is usable.
type Options struct {
	Timeout time.Duration
	Proxy   ProxyConfig
	// RateLimit is the number of queries per second allowed per host.
	// Zero disables throttling.
	RateLimit float64
	RateBurst int
	Logger    *zap.Logger
}

// Client speaks the WHOIS protocol: open a TCP connection, send the query
// terminated by CRLF, read until the server closes the connection.
type Client struct {
	timeout  time.Duration
	dialer   *net.Dialer
	proxy    proxy.ContextDialer
	suffixes []string
	log      *zap.SugaredLogger

	rate     rate.Limit
	burst    int
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewClient creates a Client from opts.
func NewClient(opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 1
	}

	c := &Client{
		timeout:  opts.Timeout,
		dialer:   &net.Dialer{Timeout: opts.Timeout},
		log:      opts.Logger.Sugar().Named("whois"),
		rate:     rate.Limit(opts.RateLimit),
		burst:    opts.RateBurst,
		limiters: make(map[string]*rate.Limiter),
	}

	if opts.Proxy.Server != "" {
		var auth *proxy.Auth
		if opts.Proxy.Username != "" {
			auth = &proxy.Auth{User: opts.Proxy.Username, Password: opts.Proxy.Password}
		}
		d, err := proxy.SOCKS5("tcp", opts.Proxy.Server, auth, c.dialer)
		if err != nil {
			return nil, errors.Wrap(err, "create SOCKS5 dialer")
		}
		cd, ok := d.(proxy.ContextDialer)
		if !ok {
			return nil, errors.New("SOCKS5 dialer does not support contexts")
		}
		c.proxy = cd
		for _, s := range opts.Proxy.Suffixes {
			s = strings.ToLower(strings.Trim(strings.TrimSpace(s), "."))
			if s != "" {
				c.suffixes = append(c.suffixes, s)
			}
		}
	}

	return c, nil
}

// Send sends query to host:port and returns the whole reply.
// A port of zero means DefaultPort.
func (c *Client) Send(ctx context.Context, host string, port int, query string) (string, error) {
	if port == 0 {
		port = DefaultPort
	}
	start := time.Now()
	body, err := c.send(ctx, host, port, query)

	result := "ok"
	switch {
	case err == nil:
	case IsTimeout(err):
		result = "timeout"
	default:
		result = "error"
	}
	utils.WhoisQueries.WithLabelValues(host, result).Inc()
	utils.WhoisQueryDuration.WithLabelValues(host).Observe(time.Since(start).Seconds())

	return body, err
}

func (c *Client) send(ctx context.Context, host string, port int, query string) (string, error) {
	if err := c.limiter(host).Wait(ctx); err != nil {
		return "", &ConnectionError{Host: host, Port: port, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.log.Debugf("Querying WHOIS for %q on server: %s:%d", query, host, port)

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	var (
		conn net.Conn
		err  error
	)
	if c.useProxy(query) {
		conn, err = c.proxy.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = c.dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return "", &ConnectionError{Host: host, Port: port, Err: err}
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	// Unblock pending I/O as soon as the caller gives up.
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	if _, err := conn.Write([]byte(query + "\r\n")); err != nil {
		return "", &TransportError{Host: host, Op: "write", Err: c.ctxErr(ctx, err)}
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(conn, MaxResponseSize+1))
	if err != nil {
		return "", &TransportError{Host: host, Op: "read", Err: c.ctxErr(ctx, err)}
	}
	if n > MaxResponseSize {
		return "", &TransportError{Host: host, Op: "read", Err: errors.Errorf("reply exceeds %d bytes", MaxResponseSize)}
	}

	return buf.String(), nil
}

// ctxErr prefers a cancellation from the caller over the deadline error it
// produced on the connection.
func (c *Client) ctxErr(ctx context.Context, err error) error {
	if cerr := ctx.Err(); errors.Is(cerr, context.Canceled) {
		return cerr
	}
	return err
}

func (c *Client) limiter(host string) *rate.Limiter {
	if c.rate <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.limiters[host]
	if !ok {
		l = rate.NewLimiter(c.rate, c.burst)
		c.limiters[host] = l
	}
	return l
}

// useProxy reports whether the key inside query belongs to a proxied TLD.
func (c *Client) useProxy(query string) bool {
	if c.proxy == nil {
		return false
	}
	key := strings.ToLower(strings.TrimSpace(query))
	if i := strings.LastIndexByte(key, ' '); i >= 0 {
		key = key[i+1:]
	}
	key = strings.TrimPrefix(key, "=")
	key = strings.TrimSuffix(key, ".")
	for _, s := range c.suffixes {
		if key == s || strings.HasSuffix(key, "."+s) {
			return true
		}
	}
	return false
}
