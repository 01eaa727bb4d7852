package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ivanzxc/ecg-monitor/internal/config"
	"github.com/ivanzxc/ecg-monitor/internal/hub"
)

func TestRoutes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<canvas></canvas>"), 0o644))

	cfg := config.Default()
	cfg.HTTP.StaticDir = dir
	h := hub.New(time.Second, zap.NewNop())
	h.BroadcastText([]byte("x"))

	srv := httptest.NewServer(routes(cfg, h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "messages 1\nclients 0\ndropped 0\n", string(body))

	resp, err = http.Get(srv.URL + "/")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "<canvas>")
}
