package httpapi

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/gofiber/fiber/v2"
)

const userIDKey = "userID"

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	if err != nil {
		// Let the error handler set the final status before logging it.
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}
	s.logger.Info(c.UserContext(), "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return nil
}

func (s *Server) resolve(c *fiber.Ctx) (int64, error) {
	token := c.Get(common.SessionTokenHeaderName)
	if token == "" {
		return 0, common.ErrorUnauthorized
	}
	return s.users.Authenticate(c.UserContext(), token)
}

func (s *Server) requireSession(c *fiber.Ctx) error {
	id, err := s.resolve(c)
	if err != nil {
		return err
	}
	c.Locals(userIDKey, id)
	return c.Next()
}

// optionalSession resolves the session when one is presented and lets
// anonymous callers through with user id 0.
func (s *Server) optionalSession(c *fiber.Ctx) error {
	id, err := s.resolve(c)
	if err != nil && !errors.Is(err, common.ErrorUnauthorized) {
		return err
	}
	c.Locals(userIDKey, id)
	return c.Next()
}

func currentUser(c *fiber.Ctx) int64 {
	id, _ := c.Locals(userIDKey).(int64)
	return id
}
