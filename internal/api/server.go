// Package api exposes the small HTTP surface polled by the desktop app:
// verification status, the OAuth callback and a health check.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"wildflover-bot/internal/config"
	"wildflover-bot/internal/verify"
)

type Verification interface {
	Lookup(ctx context.Context, userID string) (*verify.Record, error)
}

type OAuthCallback interface {
	HandleCallback(ctx context.Context, code, state string) (*verify.Record, error)
}

type Server struct {
	app    *fiber.App
	addr   string
	logger *zap.Logger
}

func New(cfg config.APIConfig, verification Verification, oauth OAuthCallback, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               "wildflover-api",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	s := &Server{app: app, addr: cfg.Addr, logger: logger}

	app.Get("/health", s.handleHealth)
	app.Get("/api/verify/check", s.handleVerifyCheck(verification))
	app.Get("/oauth/callback", s.handleOAuthCallback(oauth))

	return s
}

func (s *Server) Listen() error { return s.app.Listen(s.addr) }

func (s *Server) Shutdown() error { return s.app.Shutdown() }

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UnixMilli(),
	})
}

func (s *Server) handleVerifyCheck(verification Verification) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Query("userId")
		if userID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "userId is required"})
		}
		record, err := verification.Lookup(c.Context(), userID)
		if err != nil {
			s.logger.Error("verification lookup failed", zap.String("user_id", userID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "lookup failed"})
		}
		if record == nil {
			return c.JSON(fiber.Map{"verified": false})
		}
		return c.JSON(fiber.Map{
			"verified": true,
			"user": fiber.Map{
				"id":            record.UserID,
				"username":      record.Username,
				"discriminator": record.Discriminator,
				"avatar":        record.Avatar,
				"global_name":   record.GlobalName,
			},
			"timestamp": record.Timestamp,
		})
	}
}

func (s *Server) handleOAuthCallback(oauth OAuthCallback) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Query("code")
		state := c.Query("state")
		if code == "" || state == "" {
			return c.Status(fiber.StatusBadRequest).SendString("Missing code or state.")
		}
		record, err := oauth.HandleCallback(c.Context(), code, state)
		if err != nil {
			if errors.Is(err, verify.ErrStateReplayed) {
				return c.Status(fiber.StatusBadRequest).SendString("This login link was already used.")
			}
			s.logger.Error("oauth callback failed", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).SendString("Login failed, start again from Discord.")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString("<html><body><h2>Verified as " + record.Username + "</h2><p>You can close this window and return to the app.</p></body></html>")
	}
}
