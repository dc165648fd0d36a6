package httpapi

import (
	"errors"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/gofiber/fiber/v2"
)

func errorBody(msg string) fiber.Map {
	return fiber.Map{"error": msg}
}

// errorHandler maps service errors to status codes. Denied access is
// reported as not found.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var ve *common.ValidationError
	var fe *fiber.Error

	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(errorBody(ve.Message))
	case errors.Is(err, common.ErrorUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(errorBody("Unauthorized"))
	case errors.Is(err, common.ErrorNotFound):
		return c.Status(fiber.StatusNotFound).JSON(errorBody("Not found"))
	case errors.Is(err, common.ErrorAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(errorBody("Already exist"))
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(errorBody(fe.Message))
	}

	s.logger.Error(c.UserContext(), "request failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(errorBody("Internal server error"))
}
