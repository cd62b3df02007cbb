// Command createadmin creates an administrator account or promotes an
// existing user. Storage settings come from the server configuration.
//
//	createadmin -email admin@example.com [-name Admin] [-password secret]
//
// The password may also come from ADMIN_PASSWORD; otherwise it is prompted for.
// A database must be configured (DATABASE_DSN or -d).
package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"

	"github.com/dmitrijs2005/storefront/internal/adminctl"
	"github.com/dmitrijs2005/storefront/internal/flagx"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storefront/internal/server/services"
)

func main() {

	var opts adminctl.Options

	fs := flag.NewFlagSet("createadmin", flag.ExitOnError)
	fs.StringVar(&opts.Email, "email", "", "admin email")
	fs.StringVar(&opts.Name, "name", "", "display name")
	fs.StringVar(&opts.Password, "password", "", "admin password")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], "email", "name", "password"))

	if opts.Password == "" {
		opts.Password = os.Getenv("ADMIN_PASSWORD")
	}

	ctx := context.Background()
	cfg := config.LoadConfig()
	if err := adminctl.RequireDatabase(cfg.DatabaseDSN); err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(cfg.LogBackend, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	repos, err := repomanager.NewRepositoryManager(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer repos.Close(ctx)

	us, err := services.NewUserService(repos, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := adminctl.Run(ctx, us, opts, bufio.NewReader(os.Stdin), os.Stdout); err != nil {
		log.Printf("%v", err)
		repos.Close(ctx)
		os.Exit(1)
	}

}
