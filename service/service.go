// Package service is the execution endpoint the editor dispatches to. It
// materializes the submitted graph per flow id, then answers prompt
// requests by running the prompt through that graph.
package service

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/tidwall/gjson"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/dispatch"
	"github.com/meikuraledutech/flow/log"
)

// Service serves POST /main
type Service struct {
	store flow.Store
	reg   *flow.Registry
	app   *fiber.App
}

// DefaultFlowID keys requests that carry no flow id header
const DefaultFlowID = "default"

// New builds the fiber app. A nil registry means flow.DefaultRegistry().
func New(store flow.Store, reg *flow.Registry) *Service {
	if reg == nil {
		reg = flow.DefaultRegistry()
	}
	s := &Service{
		store: store,
		reg:   reg,
		app:   fiber.New(fiber.Config{AppName: "flow"}),
	}

	s.app.Use(recoverer.New())
	s.app.Use(logger.New())
	s.app.Use(cors.New())

	s.app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Post("/main", s.handleMain)
	return s
}

// App returns the fiber app for Listen or Test
func (s *Service) App() *fiber.App {
	return s.app
}

func (s *Service) handleMain(c fiber.Ctx) error {
	body := c.Body()
	if !gjson.ValidBytes(body) {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	flowID := c.Get(dispatch.FlowIDHeader, DefaultFlowID)

	switch {
	case gjson.GetBytes(body, "nodes").Exists():
		return s.receiveGraph(c, flowID, body)
	case gjson.GetBytes(body, "prompt").Exists():
		return s.runPrompt(c, flowID,
			gjson.GetBytes(body, "prompt").String(),
			gjson.GetBytes(body, "option").String())
	default:
		return c.Status(400).JSON(fiber.Map{"error": "unrecognized payload"})
	}
}

func (s *Service) receiveGraph(c fiber.Ctx, flowID string, body []byte) error {
	g, err := flow.Unmarshal(body, s.reg)
	if err != nil {
		slog.Warn("Rejected graph", log.FlowID(flowID), log.Error(err))
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	}
	if err := s.store.SaveFlow(c.Context(), flowID, g); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	slog.Info("Graph received",
		log.FlowID(flowID),
		slog.Int("nodes", len(g.Nodes)),
		slog.Int("edges", len(g.Edges)))
	return c.JSON(fiber.Map{
		"status": "received",
		"nodes":  len(g.Nodes),
		"edges":  len(g.Edges),
	})
}

func (s *Service) runPrompt(c fiber.Ctx, flowID, prompt, option string) error {
	g, err := s.store.GetFlow(c.Context(), flowID, s.reg)
	if errors.Is(err, flow.ErrFlowNotFound) {
		return c.Status(409).JSON(fiber.Map{"error": "no graph submitted for flow"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	out, err := Execute(g, prompt, option)
	if err != nil {
		slog.Warn("Execution failed", log.FlowID(flowID), log.Error(err))
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	}
	slog.Info("Prompt executed", log.FlowID(flowID))
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(out)
}
