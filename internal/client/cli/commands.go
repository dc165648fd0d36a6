package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/filesmanager/internal/client/api"
	"github.com/dmitrijs2005/filesmanager/internal/common"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one file id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid file id %q", args[0])
	}
	return id, nil
}

// credentials reads the email from args or a prompt and the password from
// the terminal.
func (a *App) credentials(args []string) (string, []byte, error) {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		email, err = GetSimpleText(a.reader, "Enter email:", a.out)
		if err != nil {
			return "", nil, err
		}
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

func (a *App) register(ctx context.Context, args []string) error {
	email, password, err := a.credentials(args)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.api.Register(ctx, email, string(password))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered %s (id %d)\n", user.Email, user.ID)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	email, password, err := a.credentials(args)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	token, err := a.api.Connect(ctx, email, string(password))
	if err != nil {
		return err
	}
	if err := a.tokens.Save(token); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", email)
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	token, err := a.session()
	if errors.Is(err, common.ErrorUnauthorized) {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	if err != nil {
		return err
	}
	if err := a.api.Disconnect(ctx, token); err != nil && !errors.Is(err, common.ErrorUnauthorized) {
		return err
	}
	if err := a.tokens.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) me(ctx context.Context, _ []string) error {
	token, err := a.session()
	if err != nil {
		return err
	}
	user, err := a.api.Me(ctx, token)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d\t%s\n", user.ID, user.Email)
	return nil
}

// detectType classifies a local file by its extension.
func detectType(path string) string {
	if strings.HasPrefix(mime.TypeByExtension(filepath.Ext(path)), "image/") {
		return "image"
	}
	return "file"
}

func (a *App) upload(ctx context.Context, args []string) error {
	fs := newFlagSet("upload")
	parent := fs.Int64("parent", 0, "parent folder id")
	public := fs.Bool("public", false, "make the file public")
	name := fs.String("name", "", "name to store the file under")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("expected a file path")
	}
	path := fs.Arg(0)

	token, err := a.session()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if *name == "" {
		*name = filepath.Base(path)
	}

	f, err := a.api.Upload(ctx, token, api.NewFile{
		Name:     *name,
		Type:     detectType(path),
		ParentID: *parent,
		IsPublic: *public,
		Data:     data,
	})
	if err != nil {
		return err
	}
	a.printFile(f)
	return nil
}

func (a *App) mkdir(ctx context.Context, args []string) error {
	fs := newFlagSet("mkdir")
	parent := fs.Int64("parent", 0, "parent folder id")
	public := fs.Bool("public", false, "make the folder public")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("expected a folder name")
	}

	token, err := a.session()
	if err != nil {
		return err
	}

	f, err := a.api.Upload(ctx, token, api.NewFile{
		Name:     fs.Arg(0),
		Type:     "folder",
		ParentID: *parent,
		IsPublic: *public,
	})
	if err != nil {
		return err
	}
	a.printFile(f)
	return nil
}

func (a *App) list(ctx context.Context, args []string) error {
	fs := newFlagSet("ls")
	parent := fs.Int64("parent", 0, "folder id, 0 for the root")
	page := fs.Int("page", 0, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := a.session()
	if err != nil {
		return err
	}

	files, err := a.api.List(ctx, token, *parent, *page)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(a.out, "No files")
		return nil
	}
	for i := range files {
		a.printFile(&files[i])
	}
	return nil
}

func (a *App) show(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	token, err := a.session()
	if err != nil {
		return err
	}
	f, err := a.api.Get(ctx, token, id)
	if err != nil {
		return err
	}
	a.printFile(f)
	return nil
}

func (a *App) setVisibility(ctx context.Context, args []string, public bool) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	token, err := a.session()
	if err != nil {
		return err
	}
	f, err := a.api.SetVisibility(ctx, token, id, public)
	if err != nil {
		return err
	}
	a.printFile(f)
	return nil
}

func (a *App) publish(ctx context.Context, args []string) error {
	return a.setVisibility(ctx, args, true)
}

func (a *App) unpublish(ctx context.Context, args []string) error {
	return a.setVisibility(ctx, args, false)
}

// get downloads content. Anonymous downloads are attempted when there is no
// stored session, which works for public files.
func (a *App) get(ctx context.Context, args []string) error {
	fs := newFlagSet("get")
	size := fs.Int("size", 0, "thumbnail width (100, 250 or 500)")
	output := fs.String("o", "", "output path, stdout when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseID(fs.Args())
	if err != nil {
		return err
	}

	token, err := a.session()
	if err != nil && !errors.Is(err, common.ErrorUnauthorized) {
		return err
	}

	data, _, err := a.api.Content(ctx, token, id, *size)
	if err != nil {
		return err
	}
	if *output == "" {
		_, err = a.out.Write(data)
		return err
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *output, err)
	}
	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", len(data), *output)
	return nil
}

func (a *App) status(ctx context.Context, _ []string) error {
	st, err := a.api.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "db: %t\nkv: %t\n", st.DB, st.KV)
	return nil
}

func (a *App) stats(ctx context.Context, _ []string) error {
	st, err := a.api.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "users: %d\nfiles: %d\n", st.Users, st.Files)
	return nil
}

func (a *App) printFile(f *api.File) {
	visibility := "private"
	if f.IsPublic {
		visibility = "public"
	}
	fmt.Fprintf(a.out, "%d\t%s\t%s\t%s\tparent=%d\n", f.ID, f.Type, visibility, f.Name, f.ParentID)
}
