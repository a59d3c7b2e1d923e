package main

import (
	"fmt"
	"os"

	"github.com/Synchronicityai-org/tinywins/internal/backend"
	"github.com/Synchronicityai-org/tinywins/internal/cli"
	"github.com/Synchronicityai-org/tinywins/internal/config"
	"github.com/Synchronicityai-org/tinywins/internal/db"
	"github.com/Synchronicityai-org/tinywins/internal/repository"
	"github.com/Synchronicityai-org/tinywins/internal/saga"
	"github.com/Synchronicityai-org/tinywins/internal/service"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("TINYWINS_CONFIG"))
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	app, cleanup, err := buildApp(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

// newLogger builds a zap logger from the configured level and format.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stderr"}
	return zapCfg.Build()
}

// buildApp wires stores and services for the configured mode.
// The returned cleanup closes whatever the mode opened.
func buildApp(cfg config.Config, log *zap.Logger) (*cli.App, func(), error) {
	app := &cli.App{Log: log}
	cleanup := func() {}

	switch cfg.Mode {
	case config.ModeRemote:
		client := backend.NewClient(cfg.Backend, backend.NewZapObserver(log))
		app.Auth = client

		milestones := backend.NewRemoteMilestoneStore(client)
		profiles := backend.NewRemoteKidProfileStore(client)
		users := backend.NewRemoteUserStore(client)
		teams := backend.NewRemoteTeamStore(client)
		assessments := backend.NewRemoteAssessmentStore(client)
		blog := backend.NewRemoteBlogStore(client)

		wireServices(app, log, milestones, profiles, users, teams, assessments, blog)

	default: // config.ModeLocal
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		cleanup = func() { database.Close() }

		milestones := repository.NewSQLiteMilestoneStore(database)
		profiles := repository.NewSQLiteKidProfileStore(database)
		users := repository.NewSQLiteUserStore(database)
		teams := repository.NewSQLiteTeamStore(database)
		assessments := repository.NewSQLiteAssessmentStore(database)
		blog := repository.NewSQLiteBlogStore(database)

		wireServices(app, log, milestones, profiles, users, teams, assessments, blog)
	}

	return app, cleanup, nil
}

func wireServices(
	app *cli.App,
	log *zap.Logger,
	milestones repository.MilestoneStore,
	profiles repository.KidProfileStore,
	users repository.UserStore,
	teams repository.TeamStore,
	assessments repository.AssessmentStore,
	blog repository.BlogStore,
) {
	runner := saga.NewRunner(log)

	app.Profiles = service.NewProfileService(profiles, teams, runner)
	app.Milestones = service.NewMilestoneService(milestones, log)
	app.Feedback = service.NewFeedbackService(milestones)
	app.Teams = service.NewTeamService(teams, users, log)
	app.Assessments = service.NewAssessmentService(assessments)
	app.Blog = service.NewBlogService(blog)
}
