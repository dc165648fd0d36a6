// Package httpapi is the REST front of the files manager, built on fiber.
package httpapi

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// BodyLimit caps request bodies, base64 upload payloads included.
const BodyLimit = 64 << 20

type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Connect(ctx context.Context, email, password string) (string, error)
	Disconnect(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (int64, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
}

type FileService interface {
	Upload(ctx context.Context, userID int64, req services.UploadRequest) (*models.File, error)
	Get(ctx context.Context, requesterID, id int64) (*models.File, error)
	List(ctx context.Context, userID, parentID int64, page int) ([]*models.File, error)
	SetVisibility(ctx context.Context, userID, id int64, public bool) (*models.File, error)
	Content(ctx context.Context, requesterID, id int64, size int) ([]byte, string, error)
}

type StatusService interface {
	Status(ctx context.Context) services.Status
	Stats(ctx context.Context) (*services.Stats, error)
}

type Server struct {
	address         string
	logger          logging.Logger
	users           UserService
	files           FileService
	status          StatusService
	app             *fiber.App
	shutdownTimeout time.Duration
}

func NewServer(a string, l logging.Logger, us UserService, fs FileService, ss StatusService, shutdownTimeout time.Duration) *Server {
	s := &Server{
		address:         a,
		logger:          l.With("module", "http_server"),
		users:           us,
		files:           fs,
		status:          ss,
		shutdownTimeout: shutdownTimeout,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "filesmanager",
		BodyLimit:             BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(s.requestLogger)
	s.routes()

	return s
}

func (s *Server) routes() {
	s.app.Get("/status", s.getStatus)
	s.app.Get("/stats", s.getStats)

	s.app.Post("/users", s.postUser)
	s.app.Get("/users/me", s.requireSession, s.getMe)

	s.app.Get("/connect", s.getConnect)
	s.app.Get("/disconnect", s.requireSession, s.getDisconnect)

	files := s.app.Group("/files")
	files.Post("/", s.requireSession, s.postFile)
	files.Get("/", s.requireSession, s.getFiles)
	files.Get("/:id", s.requireSession, s.getFile)
	files.Put("/:id/publish", s.requireSession, s.putPublish)
	files.Put("/:id/unpublish", s.requireSession, s.putUnpublish)
	files.Get("/:id/data", s.optionalSession, s.getFileData)
}

// App exposes the fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve handles requests on lis until ctx is cancelled, then drains
// in-flight requests for at most the shutdown timeout.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())
		errc <- s.app.Listener(lis)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	if err := s.app.ShutdownWithTimeout(s.shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errc
}
