package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/config"
	"github.com/meikuraledutech/flow/dispatch"
	"github.com/meikuraledutech/flow/editor"
	"github.com/meikuraledutech/flow/export"
	"github.com/meikuraledutech/flow/log"
)

type session struct {
	cfg    *config.Config
	prompt string
}

func main() {
	cfg := config.NewDefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		fatal("config", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("config", err)
	}
	slog.SetDefault(log.New("flow-example", cfg.LogLevel, cfg.LogFormat, os.Stderr))

	prompt := "hello"
	if len(os.Args) > 1 {
		prompt = strings.Join(os.Args[1:], " ")
	}

	s := &session{cfg: cfg, prompt: prompt}
	if err := s.run(context.Background()); err != nil {
		fatal("run", err)
	}
}

func (s *session) run(ctx context.Context) error {
	// One session id per editor keeps this run's graph apart from others
	// on the service.
	transport := dispatch.NewHTTPTransport(
		s.cfg.ServiceURL, uuid.NewString(), s.cfg.RequestTimeout,
	)
	ed, err := editor.New(nil, transport, editor.WithInitialGraph())
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	// ── Wire the initial canvas: Prompt → 2 → 3 ───────────────────────
	for _, c := range []editor.Connection{
		{Source: "Prompt", Target: "2"},
		{Source: "2", Target: "3"},
	} {
		if _, err := ed.OnConnect(c); err != nil {
			return fmt.Errorf("connect: %w", err)
		}
	}

	// ── Configure through the dialog surface ──────────────────────────
	if _, err := ed.OnNodeClick("Prompt"); err != nil {
		return err
	}
	if err := ed.Edit(flow.FieldPrompt, s.prompt); err != nil {
		return err
	}
	if _, err := ed.OnNodeClick("2"); err != nil {
		return err
	}
	if err := ed.Edit(flow.FieldOption, flow.Option2); err != nil {
		return err
	}
	ed.CloseDialog()

	// ── Export flow.json ──────────────────────────────────────────────
	ex, err := export.Open(ctx, s.cfg.ExportBucket, "")
	if err != nil {
		return err
	}
	defer func() { _ = ex.Close() }()
	key, err := ed.Export(ctx, ex)
	if err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", key, s.cfg.ExportBucket)

	// ── Run ───────────────────────────────────────────────────────────
	res, err := ed.Run(ctx)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	fmt.Printf("state: %s\n", res.State)

	if _, err := ed.OnNodeClick("3"); err != nil {
		return err
	}
	surface, err := ed.Surface()
	if err != nil {
		return err
	}
	fmt.Printf("output: %s\n", surface.Display())
	return nil
}

func fatal(step string, err error) {
	slog.Error("Example failed", slog.String("step", step), log.Error(err))
	os.Exit(1)
}
