package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/filesmanager/internal/flagx"
)

// ValuedFlags lists the global flags that take a separate value argument.
var ValuedFlags = []string{"-s", "-token", "-timeout", "-c", "-config"}

// parseFlags populates cfg from the global flags in args. Unknown flags are
// filtered out first; malformed values panic.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "files manager API base URL")
	fs.StringVar(&cfg.TokenFile, "token", cfg.TokenFile, "session token file")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "request timeout")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-s", "-token", "-timeout"})); err != nil {
		panic(err)
	}
}
