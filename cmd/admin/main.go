// Command admin creates an administrator account in the configured storage.
// It accepts the same configuration sources as the server.
package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/admin"
	"github.com/dmitrijs2005/taskkeeper/internal/server"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close(ctx)

	if err := admin.CreateAdmin(ctx, app.Users(), os.Stdin, os.Stdout); err != nil {
		log.Printf("%v", err)
		app.Close(ctx)
		os.Exit(1)
	}

}
