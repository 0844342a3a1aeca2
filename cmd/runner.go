package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/monty/internal/repositories"
	"github.com/desertthunder/monty/internal/services"
	"github.com/desertthunder/monty/internal/shared"
	"github.com/desertthunder/monty/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	api        *services.APIService
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        *services.APIService
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, dbCommand, exportCommand, apiCommand, browseCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration named by --config and applies the log level.
//
// A missing config file is not an error; the defaults are used.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if err := r.LoadConfig(cmd.String("config")); err != nil {
		return ctx, err
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		r.config.Log.Level = lvl
	}

	level, err := r.config.Log.ParseLevel()
	if err != nil {
		return ctx, err
	}
	shared.SetLogLevel(r.logger, level)
	return ctx, nil
}

// LoadConfig replaces the runner's config with the file at path, or the defaults when it does not exist.
func (r *Runner) LoadConfig(path string) error {
	config, err := shared.LoadConfigOrDefault(path)
	if err != nil {
		return err
	}
	r.config = config
	r.configPath = path
	return nil
}

// SetLogger replaces the runner's logger, keeping its level.
func (r *Runner) SetLogger(l *log.Logger) {
	l.SetLevel(r.logger.GetLevel())
	r.logger = l
}

// client returns the API client, built from the configured server address unless url is set.
func (r *Runner) client(url string) *services.APIService {
	if url != "" {
		return services.NewAPIService(url, nil)
	}
	if r.api == nil {
		r.api = services.NewAPIService("http://"+r.config.Server.Addr(), nil)
	}
	return r.api
}

// openDB opens and pings the configured database.
//
// The returned close function must be called when the database is no longer needed.
func (r *Runner) openDB(ctx context.Context) (*sql.DB, func(), error) {
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			r.logger.Warn("failed to close database", "error", err)
		}
	}

	if err := shared.PingDatabase(ctx, db, 5*time.Second); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	return db, closeDB, nil
}

// openStore opens the configured database, applies pending migrations and wraps it in a store.
func (r *Runner) openStore(ctx context.Context) (*repositories.Store, func(), error) {
	db, closeDB, err := r.openDB(ctx)
	if err != nil {
		return nil, nil, err
	}

	if err := shared.RunMigrations(db, r.config.Database.Driver); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return r.newStore(db), closeDB, nil
}

func (r *Runner) newStore(db *sql.DB) *repositories.Store {
	return repositories.NewStore(db,
		repositories.WithLogger(shared.WithLogger(r.logger, "component", "store")),
		repositories.WithTrace(r.config.Log.Trace),
		repositories.WithDriver(r.config.Database.Driver),
	)
}

// printProgress writes progress messages until the channel is closed, then signals done.
func (r *Runner) printProgress(progress <-chan tasks.ProgressUpdate, done chan<- struct{}) {
	for update := range progress {
		r.writePlain("%s\n", update.Message)
	}
	close(done)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
