package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/filesmanager/internal/client/api"
	"github.com/dmitrijs2005/filesmanager/internal/client/config"
	"github.com/dmitrijs2005/filesmanager/internal/common"
)

// API is the subset of *api.Client used by the commands.
type API interface {
	Status(ctx context.Context) (*api.Status, error)
	Stats(ctx context.Context) (*api.Stats, error)
	Register(ctx context.Context, email, password string) (*api.User, error)
	Connect(ctx context.Context, email, password string) (string, error)
	Disconnect(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*api.User, error)
	Upload(ctx context.Context, token string, f api.NewFile) (*api.File, error)
	List(ctx context.Context, token string, parentID int64, page int) ([]api.File, error)
	Get(ctx context.Context, token string, id int64) (*api.File, error)
	SetVisibility(ctx context.Context, token string, id int64, public bool) (*api.File, error)
	Content(ctx context.Context, token string, id int64, size int) ([]byte, string, error)
}

type App struct {
	config *config.Config
	api    API
	tokens *TokenStore
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerURL, c.Timeout),
		tokens: NewTokenStore(c.TokenFile),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

type command func(a *App, ctx context.Context, args []string) error

var commands = map[string]command{
	"register":  (*App).register,
	"login":     (*App).login,
	"logout":    (*App).logout,
	"me":        (*App).me,
	"upload":    (*App).upload,
	"mkdir":     (*App).mkdir,
	"ls":        (*App).list,
	"show":      (*App).show,
	"publish":   (*App).publish,
	"unpublish": (*App).unpublish,
	"get":       (*App).get,
	"status":    (*App).status,
	"stats":     (*App).stats,
}

var errUnknownCommand = errors.New("unknown command")

// Run executes the named subcommand.
func (a *App) Run(ctx context.Context, cmd string, args []string) error {
	if cmd == "" || cmd == "help" {
		a.help()
		return nil
	}
	fn, ok := commands[cmd]
	if !ok {
		a.help()
		return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
	return describe(fn(a, ctx, args))
}

func (a *App) help() {
	fmt.Fprintln(a.out, "Commands:")
	fmt.Fprintln(a.out, "  register [email]                    create an account")
	fmt.Fprintln(a.out, "  login [email]                       open a session")
	fmt.Fprintln(a.out, "  logout                              close the session")
	fmt.Fprintln(a.out, "  me                                  show the current user")
	fmt.Fprintln(a.out, "  upload [-parent id] [-public] path  upload a file or image")
	fmt.Fprintln(a.out, "  mkdir [-parent id] [-public] name   create a folder")
	fmt.Fprintln(a.out, "  ls [-parent id] [-page n]           list a folder")
	fmt.Fprintln(a.out, "  show id                             show file metadata")
	fmt.Fprintln(a.out, "  publish id | unpublish id           change visibility")
	fmt.Fprintln(a.out, "  get [-size px] [-o path] id         download content")
	fmt.Fprintln(a.out, "  status | stats                      server health and counters")
}

// describe turns API sentinels into messages a user can act on.
func describe(err error) error {
	var ve *common.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ve):
		return errors.New(ve.Message)
	case errors.Is(err, common.ErrorUnauthorized):
		return errors.New("not logged in or wrong credentials, run 'login'")
	case errors.Is(err, common.ErrorNotFound):
		return errors.New("not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		return errors.New("already exists")
	}
	return err
}

// session returns the stored token, failing when the user is not logged in.
func (a *App) session() (string, error) {
	return a.tokens.Load()
}
