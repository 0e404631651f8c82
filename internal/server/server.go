// Package server exposes the reconciliation pipeline over HTTP: a small
// upload page and a compare endpoint that returns the annotated workbook.
package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/daquezad/CX-Licensing-Automation/internal/engine"
)

// Config holds the server's runtime options.
type Config struct {
	Policy engine.Policy
	// BodyLimit caps upload size in bytes. Zero means the default.
	BodyLimit int
}

// Server wires the HTTP surface around the reconciliation engine.
type Server struct {
	app    *fiber.App
	config Config
}

// New creates a server with its routes registered.
func New(config Config) *Server {
	if config.Policy == "" {
		config.Policy = engine.PolicyExactRow
	}
	bodyLimit := config.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = 64 << 20 // both workbooks plus the exception map
	}

	app := fiber.New(fiber.Config{
		AppName:               "cx-licensing",
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})

	s := &Server{app: app, config: config}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/", s.handleIndex)
	s.app.Get("/healthz", s.handleHealth)
	s.app.Post("/compare", s.handleCompare)
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until Shutdown is called.
func (s *Server) Listen(addr string) error {
	slog.Info("Starting web surface", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
