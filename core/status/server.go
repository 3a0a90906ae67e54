package status

import (
	"time"

	"group-sync/core/logger"
	"group-sync/core/middleware/auth"
	"group-sync/core/middleware/rayid"
	"group-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Response is the body of GET /status.
type Response struct {
	RunID     string  `json:"run_id"`
	State     string  `json:"state"`
	Pages     int     `json:"pages"`
	Users     int     `json:"users"`
	Skipped   int     `json:"skipped"`
	Outcomes  int     `json:"outcomes"`
	Failures  int     `json:"failures"`
	NoRoles   int     `json:"no_roles"`
	Cursor    string  `json:"cursor,omitempty"`
	StartedAt string  `json:"started_at"`
	Elapsed   float64 `json:"elapsed_seconds"`
}

// Server exposes live run progress over HTTP.
type Server struct {
	app     *fiber.App
	tracker *Tracker
	logger  *zap.Logger
}

// NewServer builds the Fiber app serving the tracker's snapshots.
func NewServer(cfg Config, tracker *Tracker, logg *zap.Logger) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
		}),
		tracker: tracker,
		logger:  logg,
	}

	s.app.Use(rayid.New())
	s.app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			logger.WithRayID(s.logger, c).Error("Request error", zap.Error(err))
		}
		return err
	})
	s.app.Use(auth.New(auth.Config{ApiKey: cfg.ApiKey}))
	s.app.Get("/status", s.HandleStatus)

	return s
}

// App returns the underlying Fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// HandleStatus returns the latest snapshot of the run.
func (s *Server) HandleStatus(c *fiber.Ctx) error {
	snap := s.tracker.Snapshot()

	elapsed := snap.Elapsed
	if snap.State != reconcile.StateDone && !snap.Started.IsZero() {
		elapsed = time.Since(snap.Started)
	}

	return c.JSON(Response{
		RunID:     snap.RunID,
		State:     string(snap.State),
		Pages:     snap.Pages,
		Users:     snap.Users,
		Skipped:   snap.Skipped,
		Outcomes:  snap.Outcomes,
		Failures:  snap.Failures,
		NoRoles:   snap.NoRoles,
		Cursor:    snap.Cursor,
		StartedAt: snap.Started.UTC().Format(time.RFC3339),
		Elapsed:   elapsed.Seconds(),
	})
}

// Start listens on addr in the background. Listen failures are logged.
func (s *Server) Start(addr string) {
	go func() {
		s.logger.Info("Starting status server", zap.String("addr", addr))
		if err := s.app.Listen(addr); err != nil {
			s.logger.Warn("Status server stopped", zap.Error(err))
		}
	}()
}

// Shutdown stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
