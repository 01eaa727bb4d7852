package hub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return c
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.Len() == n }, time.Second, 5*time.Millisecond)
}

func TestHubBroadcast(t *testing.T) {
	h := New(200*time.Millisecond, zap.NewNop())
	srv := httptest.NewServer(h)
	defer srv.Close()

	a := dial(t, srv)
	defer a.Close()
	b := dial(t, srv)
	defer b.Close()
	waitClients(t, h, 2)

	h.BroadcastBinary([]byte{1, 2, 3, 4})
	h.BroadcastText([]byte(`{"hr":72}`))

	for _, c := range []*websocket.Conn{a, b} {
		require.NoError(t, c.SetReadDeadline(time.Now().Add(time.Second)))
		kind, data, err := c.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.BinaryMessage, kind)
		assert.Equal(t, []byte{1, 2, 3, 4}, data)

		kind, data, err = c.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.TextMessage, kind)
		assert.JSONEq(t, `{"hr":72}`, string(data))
	}
	assert.Equal(t, int64(2), h.Messages())
}

func TestHubRemovesClosedClient(t *testing.T) {
	h := New(200*time.Millisecond, zap.NewNop())
	srv := httptest.NewServer(h)
	defer srv.Close()

	c := dial(t, srv)
	waitClients(t, h, 1)

	require.NoError(t, c.Close())
	waitClients(t, h, 0)

	h.BroadcastText([]byte("nobody"))
	assert.Equal(t, int64(0), h.Dropped())
}

func TestHubClose(t *testing.T) {
	h := New(200*time.Millisecond, zap.NewNop())
	srv := httptest.NewServer(h)
	defer srv.Close()

	c := dial(t, srv)
	defer c.Close()
	waitClients(t, h, 1)

	h.Close()
	assert.Equal(t, 0, h.Len())

	require.NoError(t, c.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := c.ReadMessage()
	assert.Error(t, err)
}

func TestHubRejectsPlainHTTP(t *testing.T) {
	h := New(200*time.Millisecond, zap.NewNop())
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, 0, h.Len())
}
