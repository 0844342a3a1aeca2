package main

import (
	"context"

	"github.com/desertthunder/monty/internal/server"
	"github.com/desertthunder/monty/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the REST API until the process is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if host := cmd.String("host"); host != "" {
		r.config.Server.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		r.config.Server.Port = int(port)
	}
	if err := r.config.Validate(); err != nil {
		return err
	}

	store, closeDB, err := r.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	app := server.NewApp(store, r.logger, r.config)
	srv := server.NewServer(r.config.Server, server.NewRouter(app), shared.WithLogger(r.logger, "component", "server"))

	r.logger.Info("starting server", "addr", srv.Addr(), "driver", r.config.Database.Driver)
	return srv.Run(ctx)
}
