package main

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/config"
	"github.com/meikuraledutech/flow/memory"
	"github.com/meikuraledutech/flow/service"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	app := service.New(memory.New(), nil).App()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	t.Cleanup(func() { _ = app.Shutdown() })

	cfg := config.NewDefaultConfig()
	cfg.ServiceURL = "http://" + ln.Addr().String() + "/main"
	cfg.ExportBucket = "file://" + t.TempDir()
	return cfg
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	s := &session{cfg: cfg, prompt: "hello"}
	require.NoError(t, s.run(context.Background()))

	dir := cfg.ExportBucket[len("file://"):]
	data, err := os.ReadFile(filepath.Join(dir, "flow.json"))
	require.NoError(t, err)
	g, err := flow.Unmarshal(data, nil)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 3)
	assert.Len(t, g.Edges, 2)
}

func TestRunReturnsErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.ExportBucket = "unknown://bucket"
	s := &session{cfg: cfg, prompt: "hello"}
	assert.Error(t, s.run(context.Background()))
}
