package server

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"taskboard/internal/database/models"
)

// ErrorResponse is the uniform client-facing failure payload. Successful
// responses return raw entities with no envelope; only failures get this
// shape.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

// errorResponse logs the failure with its category/action/severity and sends
// the curated message to the client. Raw error detail never leaves the
// process.
func (s *FiberServer) errorResponse(c *fiber.Ctx, code int, category, action string, err error, message string) error {
	severity := "WARNING"
	if code >= fiber.StatusInternalServerError {
		severity = "ERROR"
	}
	entry := log.WithFields(log.Fields{
		"category": category,
		"action":   action,
		"severity": severity,
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	if severity == "ERROR" {
		entry.Error(message)
	} else {
		entry.Warn(message)
	}

	return c.Status(code).JSON(ErrorResponse{
		Code:    code,
		Type:    "error",
		Message: message,
		Date:    models.Now(),
	})
}

// routeNotFound is the catch-all for requests that matched no declared route.
func (s *FiberServer) routeNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Code:    fiber.StatusNotFound,
		Type:    "error",
		Message: "Route not found",
		Date:    models.Now(),
	})
}

// jwtError formats middleware auth rejections through the same payload shape.
func (s *FiberServer) jwtError(c *fiber.Ctx, err error) error {
	return s.errorResponse(c, fiber.StatusUnauthorized,
		"AUTH", "VALIDACAO DE TOKEN", err, "Token ausente ou invalido")
}
