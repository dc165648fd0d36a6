package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/filesmanager/internal/client/cli"
	"github.com/dmitrijs2005/filesmanager/internal/client/config"
	"github.com/dmitrijs2005/filesmanager/internal/flagx"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	global, cmd, args := flagx.SplitCommand(os.Args[1:], config.ValuedFlags)
	cfg := config.LoadConfig(global)
	app := cli.NewApp(cfg)

	if err := app.Run(ctx, cmd, args); err != nil {
		stop()
		log.Fatalf("%v", err)
	}

}
