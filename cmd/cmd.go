// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand runs the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the REST API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Override server.host",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Override server.port",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for the database and configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write the default configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// dbCommand handles seeding and schema maintenance.
func dbCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "Database maintenance commands",
		Commands: []*cli.Command{
			{
				Name:  "seed",
				Usage: "Load the CSV files listed in a manifest",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "manifest",
						Aliases: []string{"m"},
						Usage:   "Path to manifest.csv (default: seed.manifest)",
					},
				},
				Action: r.DBSeed,
			},
			{
				Name:   "drop",
				Usage:  "Delete the SQLite database file",
				Action: r.DBDrop,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.DBRollback,
			},
			{
				Name:  "status",
				Usage: "Show applied migrations and table row counts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.DBStatus,
			},
		},
	}
}

// exportCommand writes tables to files.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export tables to CSV, Markdown, text or JSON files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: csv, markdown, txt, json",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: monty_export_{epoch})",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of concurrent writers (max 10)",
				Value: 4,
			},
			&cli.StringSliceFlag{
				Name:    "tables",
				Aliases: []string{"t"},
				Usage:   "Tables to export (default: all)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the result summary as JSON",
			},
		},
		Action: r.Export,
	}
}

// apiCommand sends raw requests to a running server.
func apiCommand(r *Runner) *cli.Command {
	urlFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:  "url",
			Usage: "Server base URL (default: http://{server.host}:{server.port})",
		}
	}
	jsonFlag := func() cli.Flag {
		return &cli.BoolFlag{
			Name:  "json",
			Usage: "Output compact JSON",
		}
	}
	dataFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "JSON request body",
		}
	}
	pathArg := func() cli.Argument {
		return &cli.StringArg{
			Name:      "path",
			UsageText: "Request path, e.g. /albums/v1/id/1",
		}
	}

	return &cli.Command{
		Name:  "api",
		Usage: "Make raw requests to a monty server",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "GET a path",
				ArgsUsage: "<path>",
				Flags:     []cli.Flag{urlFlag(), jsonFlag()},
				Arguments: []cli.Argument{pathArg()},
				Action:    r.APIGet,
			},
			{
				Name:      "post",
				Usage:     "POST a JSON body to a path",
				ArgsUsage: "<path>",
				Flags:     []cli.Flag{urlFlag(), jsonFlag(), dataFlag()},
				Arguments: []cli.Argument{pathArg()},
				Action:    r.APIPost,
			},
			{
				Name:      "put",
				Usage:     "PUT a JSON body to a path",
				ArgsUsage: "<path>",
				Flags:     []cli.Flag{urlFlag(), jsonFlag(), dataFlag()},
				Arguments: []cli.Argument{pathArg()},
				Action:    r.APIPut,
			},
			{
				Name:      "delete",
				Usage:     "DELETE a path",
				ArgsUsage: "<path>",
				Flags:     []cli.Flag{urlFlag(), jsonFlag()},
				Arguments: []cli.Argument{pathArg()},
				Action:    r.APIDelete,
			},
			{
				Name:   "health",
				Usage:  "Check server and database health",
				Flags:  []cli.Flag{urlFlag(), jsonFlag()},
				Action: r.APIHealth,
			},
		},
	}
}

// browseCommand opens the interactive table browser.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse tables in an interactive terminal UI",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "tables",
				Aliases: []string{"t"},
				Usage:   "Tables to list (default: all)",
			},
		},
		Action: r.Browse,
	}
}
