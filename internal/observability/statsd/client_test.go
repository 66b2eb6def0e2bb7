package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newUDPListener binds an ephemeral UDP socket and returns received lines.
func newUDPListener(t *testing.T) (addr string, lines <-chan string) {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ch := make(chan string, 16)
	go func() {
		buf := make([]byte, 1024)
		for {
			n, _, readErr := conn.ReadFrom(buf)
			if readErr != nil {
				return
			}
			ch <- string(buf[:n])
		}
	}()

	return conn.LocalAddr().String(), ch
}

func receiveLine(t *testing.T, lines <-chan string) string {
	t.Helper()
	select {
	case line := <-lines:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for statsd line")
		return ""
	}
}

func TestClient_Count(t *testing.T) {
	addr, lines := newUDPListener(t)

	client, err := NewClient(Config{Enabled: true, Address: addr, Prefix: "tabsession"})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	client.Count("auth.login", 1, map[string]string{"role": "farmer"})

	assert.Equal(t, "tabsession.auth.login:1|c|#role:farmer", receiveLine(t, lines))
}

func TestClient_Timing(t *testing.T) {
	addr, lines := newUDPListener(t)

	client, err := NewClient(Config{Enabled: true, Address: addr})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	client.Timing("auth.wipe.duration", 250*time.Millisecond, nil)

	assert.Equal(t, "auth.wipe.duration:250|ms", receiveLine(t, lines))
}

func TestClient_TagsSortedAndMerged(t *testing.T) {
	addr, lines := newUDPListener(t)

	client, err := NewClient(Config{
		Enabled:    true,
		Address:    addr,
		GlobalTags: map[string]string{"env": "test"},
	})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	client.Count("auth.logout", 1, map[string]string{"role": "buyer"})

	assert.Equal(t, "auth.logout:1|c|#env:test,role:buyer", receiveLine(t, lines))
}

func TestClient_Disabled(t *testing.T) {
	client, err := NewClient(Config{Enabled: false, Address: "127.0.0.1:8125"})
	require.NoError(t, err)

	// Emissions on a disabled client are silently dropped.
	client.Count("auth.login", 1, nil)
	assert.NoError(t, client.Close())
}

func TestClient_NilSafe(t *testing.T) {
	var client *Client
	client.Count("auth.login", 1, nil)
	client.Timing("auth.login", time.Second, nil)
	assert.NoError(t, client.Close())
}

func TestClient_EmptyMetricNameDropped(t *testing.T) {
	addr, lines := newUDPListener(t)

	client, err := NewClient(Config{Enabled: true, Address: addr})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	client.Count("  ", 1, nil)
	client.Count("auth.login", 1, nil)

	// Only the valid metric arrives.
	assert.Equal(t, "auth.login:1|c", receiveLine(t, lines))
}
