package whois_tools

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock server for testing. Every accepted connection gets response after the
// query line is read; received queries are sent on the returned channel.
func startMockWhoisServer(t *testing.T, response string, delay time.Duration) (string, int, <-chan string) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	queries := make(chan string, 8)
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				line, err := bufio.NewReader(conn).ReadString('\n')
				if err != nil {
					return
				}
				queries <- line
				time.Sleep(delay)
				conn.Write([]byte(response))
			}(conn)
		}
	}()

	host, portStr, err := net.SplitHostPort(listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port, queries
}

func TestSend(t *testing.T) {
	mockResponse := "Domain Name: EXAMPLE.COM\r\nRegistrar: Example Registrar\r\n"
	host, port, queries := startMockWhoisServer(t, mockResponse, 0)

	c, err := NewClient(Options{})
	require.NoError(t, err)

	result, err := c.Send(context.Background(), host, port, "=example.com")
	require.NoError(t, err)
	assert.Equal(t, mockResponse, result)
	assert.Equal(t, "=example.com\r\n", <-queries)
}

func TestSendConnectionRefused(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	c, err := NewClient(Options{Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.Send(context.Background(), "127.0.0.1", port, "example.com")
	var connErr *ConnectionError
	require.True(t, errors.As(err, &connErr), "got %v", err)
	assert.Equal(t, "127.0.0.1", connErr.Host)
	assert.Equal(t, port, connErr.Port)
}

func TestSendTimeout(t *testing.T) {
	host, port, _ := startMockWhoisServer(t, "late", 2*time.Second)

	c, err := NewClient(Options{Timeout: 100 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.Send(context.Background(), host, port, "example.com")
	var tErr *TransportError
	require.True(t, errors.As(err, &tErr), "got %v", err)
	assert.Equal(t, "read", tErr.Op)
	assert.True(t, IsTimeout(err))
}

func TestSendResponseSizeLimit(t *testing.T) {
	exact := strings.Repeat("a", MaxResponseSize)
	host, port, _ := startMockWhoisServer(t, exact, 0)
	c, err := NewClient(Options{})
	require.NoError(t, err)

	body, err := c.Send(context.Background(), host, port, "example.com")
	require.NoError(t, err)
	assert.Len(t, body, MaxResponseSize)

	host, port, _ = startMockWhoisServer(t, exact+"tail of the reply", 0)
	_, err = c.Send(context.Background(), host, port, "example.com")
	var tErr *TransportError
	require.True(t, errors.As(err, &tErr), "got %v", err)
	assert.Equal(t, "read", tErr.Op)
	assert.Contains(t, err.Error(), "reply exceeds")
}

func TestSendCanceled(t *testing.T) {
	host, port, queries := startMockWhoisServer(t, "late", 2*time.Second)

	c, err := NewClient(Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-queries
		cancel()
	}()

	start := time.Now()
	_, err = c.Send(ctx, host, port, "example.com")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestUseProxy(t *testing.T) {
	c, err := NewClient(Options{Proxy: ProxyConfig{
		Server:   "127.0.0.1:1080",
		Suffixes: []string{"cn", " .ru "},
	}})
	require.NoError(t, err)

	tests := []struct {
		query string
		want  bool
	}{
		{"example.cn", true},
		{"=EXAMPLE.RU", true},
		{"-T dn,ace example.ru.", true},
		{"example.com", false},
		{"cnexample.com", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.useProxy(tt.query), tt.query)
	}

	direct, err := NewClient(Options{})
	require.NoError(t, err)
	assert.False(t, direct.useProxy("example.cn"))
}

func TestRateLimiterPerHost(t *testing.T) {
	c, err := NewClient(Options{RateLimit: 1, RateBurst: 1})
	require.NoError(t, err)

	assert.Same(t, c.limiter("whois.nic.io"), c.limiter("whois.nic.io"))
	assert.NotSame(t, c.limiter("whois.nic.io"), c.limiter("whois.denic.de"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, c.limiter("a").Wait(ctx))
	// the second token is a second away
	assert.Error(t, c.limiter("a").Wait(ctx))
}
