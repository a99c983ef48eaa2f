package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"proplens/app/config"
	"proplens/app/service/conversation"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
)

const maxImageBytes = 20 << 20

// Server is the HTTP transport. Wire format lives here; the conversation
// service never sees fiber types.
type Server struct {
	cfg     *config.Config
	convSvc *conversation.Service
	app     *fiber.App
}

func New(di *do.Injector) (*Server, error) {
	s := &Server{
		cfg:     do.MustInvoke[*config.Config](di),
		convSvc: do.MustInvoke[*conversation.Service](di),
	}

	app := fiber.New(fiber.Config{
		BodyLimit:             maxImageBytes,
		DisableStartupMessage: true,
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := app.Group("/api")
	api.Post("/sessions/:id/image", s.handleSubmitImage)
	api.Post("/sessions/:id/message", s.handleSubmitMessage)

	s.app = app

	return s, nil
}

func (s *Server) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		_ = s.app.ShutdownWithTimeout(5 * time.Second)
	}()

	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	slog.Info("HTTP server listening", "addr", addr)

	if err := s.app.Listen(addr); err != nil {
		slog.Error("HTTP server stopped", "error", err)
	}
}

func (s *Server) handleSubmitImage(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "an image file is required in the 'file' field",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}

	record, reply, err := s.convSvc.SubmitImage(c.Context(), sessionID, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, conversation.ErrEmptyImage) || errors.Is(err, conversation.ErrUnsupportedImage) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"record": record,
		"reply":  reply,
	})
}

func (s *Server) handleSubmitMessage(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	var body struct {
		Message  string `json:"message"`
		Location string `json:"location"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "request body must be JSON with a 'message' field",
		})
	}

	reply, err := s.convSvc.SubmitMessage(c.Context(), sessionID, body.Message, body.Location)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"reply": reply,
	})
}
