package httpapi

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type fileResponse struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID int64  `json:"parentId"`
}

func newFileResponse(f *models.File) fileResponse {
	return fileResponse{
		ID:       f.ID,
		UserID:   f.UserID,
		Name:     f.Name,
		Type:     string(f.Type),
		IsPublic: f.IsPublic,
		ParentID: f.ParentID,
	}
}

func (s *Server) getStatus(c *fiber.Ctx) error {
	return c.JSON(s.status.Status(c.UserContext()))
}

func (s *Server) getStats(c *fiber.Ctx) error {
	st, err := s.status.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(st)
}

func (s *Server) postUser(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}

	user, err := s.users.Register(c.UserContext(), body.Email, body.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(userResponse{ID: user.ID, Email: user.Email})
}

func (s *Server) getMe(c *fiber.Ctx) error {
	user, err := s.users.Me(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(userResponse{ID: user.ID, Email: user.Email})
}

// parseBasicAuth decodes an "Authorization: Basic base64(email:password)" header.
func parseBasicAuth(header string) (string, string, bool) {
	encoded, ok := strings.CutPrefix(header, "Basic ")
	if !ok {
		return "", "", false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", "", false
	}
	email, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", "", false
	}
	return email, password, true
}

func (s *Server) getConnect(c *fiber.Ctx) error {
	email, password, ok := parseBasicAuth(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return common.ErrorUnauthorized
	}
	token, err := s.users.Connect(c.UserContext(), email, password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": token})
}

func (s *Server) getDisconnect(c *fiber.Ctx) error {
	if err := s.users.Disconnect(c.UserContext(), c.Get(common.SessionTokenHeaderName)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) postFile(c *fiber.Ctx) error {
	var body struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		ParentID int64  `json:"parentId"`
		IsPublic bool   `json:"isPublic"`
		Data     string `json:"data"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}

	file, err := s.files.Upload(c.UserContext(), currentUser(c), services.UploadRequest{
		Name:     body.Name,
		Type:     body.Type,
		ParentID: body.ParentID,
		IsPublic: body.IsPublic,
		Data:     body.Data,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(newFileResponse(file))
}

// fileID parses the :id route parameter. Malformed ids cannot name a file.
func fileID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrorNotFound
	}
	return id, nil
}

func (s *Server) getFile(c *fiber.Ctx) error {
	id, err := fileID(c)
	if err != nil {
		return err
	}
	file, err := s.files.Get(c.UserContext(), currentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(newFileResponse(file))
}

func (s *Server) getFiles(c *fiber.Ctx) error {
	parentID := models.RootParentID
	if raw := c.Query("parentId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return common.NewValidationError("parentId", "Invalid parentId")
		}
		parentID = id
	}
	page := max(c.QueryInt("page", 0), 0)

	list, err := s.files.List(c.UserContext(), currentUser(c), parentID, page)
	if err != nil {
		return err
	}
	out := make([]fileResponse, 0, len(list))
	for _, f := range list {
		out = append(out, newFileResponse(f))
	}
	return c.JSON(out)
}

func (s *Server) setVisibility(c *fiber.Ctx, public bool) error {
	id, err := fileID(c)
	if err != nil {
		return err
	}
	file, err := s.files.SetVisibility(c.UserContext(), currentUser(c), id, public)
	if err != nil {
		return err
	}
	return c.JSON(newFileResponse(file))
}

func (s *Server) putPublish(c *fiber.Ctx) error {
	return s.setVisibility(c, true)
}

func (s *Server) putUnpublish(c *fiber.Ctx) error {
	return s.setVisibility(c, false)
}

func (s *Server) getFileData(c *fiber.Ctx) error {
	id, err := fileID(c)
	if err != nil {
		return err
	}

	size := 0
	if raw := c.Query("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil {
			return common.NewValidationError("size", "Invalid size")
		}
	}

	data, mimeType, err := s.files.Content(c.UserContext(), currentUser(c), id, size)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, mimeType)
	return c.Send(data)
}
