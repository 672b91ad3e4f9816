package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/factbot/core/bootstrap"
	corecmd "github.com/m3rciful/factbot/core/cmd"
	coreconfig "github.com/m3rciful/factbot/core/config"
	"github.com/m3rciful/factbot/core/logger"
	"github.com/m3rciful/factbot/core/metrics"
	coretelegram "github.com/m3rciful/factbot/core/telegram"
	"github.com/m3rciful/factbot/internal/bot"
	"github.com/m3rciful/factbot/internal/conversation"
	"github.com/m3rciful/factbot/internal/facts"
)

// App holds the wired components of a running bot.
type App struct {
	Config     *Config
	Table      *facts.Table
	Recorder   *metrics.Recorder
	Controller *conversation.Controller
	Bot        *bot.Bot

	infra *bootstrap.Result
}

// Option customises Bootstrap.
type Option func(*bootstrap.Options)

// WithBootstrapOptions lets callers replace infrastructure hooks such as the
// logger initialiser or the database connector.
func WithBootstrapOptions(fn func(*bootstrap.Options)) Option {
	return Option(fn)
}

// Bootstrap initialises logging and storage, loads the fact table and wires
// the conversation controller and Telegram adapter.
func Bootstrap(ctx context.Context, cfg *Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}

	bopts := bootstrap.Options{
		Config:   &cfg.Config,
		Database: cfg.Database,
	}
	if cfg.Facts.Seed {
		bopts.Modules.Seeders = append(bopts.Modules.Seeders, bootstrap.SeederFunc(seedBuiltin))
	}
	for _, opt := range opts {
		opt(&bopts)
	}

	infra, err := bootstrap.Run(ctx, bopts)
	if err != nil {
		return nil, err
	}

	table, err := loadTable(ctx, cfg.Facts.Source, infra.DB)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	logger.Info(ctx, "facts", "facts.loaded",
		slog.String("status", "ok"),
		slog.String("source", cfg.Facts.Source),
		slog.Int("count", table.Total()),
	)

	rec := metrics.NewRecorder()
	ctrl := conversation.New(conversation.Deps{
		Facts:    table,
		Rand:     facts.SeededRand(cfg.Facts.RandSeed),
		Observer: rec,
	})

	return &App{
		Config:     cfg,
		Table:      table,
		Recorder:   rec,
		Controller: ctrl,
		Bot:        bot.New(ctrl, rec, cfg.Telegram.AdminID),
		infra:      infra,
	}, nil
}

func seedBuiltin(ctx context.Context, db *sqlx.DB) error {
	_, err := facts.NewRepository(db).Seed(ctx, facts.Builtin())
	return err
}

func loadTable(ctx context.Context, source string, db *sqlx.DB) (*facts.Table, error) {
	if source != SourceDatabase {
		return facts.Builtin(), nil
	}
	if db == nil {
		return nil, fmt.Errorf("app: facts.source 'database' without a database connection")
	}
	table, err := facts.NewRepository(db).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("app: load fact table: %w", err)
	}
	return table, nil
}

// CoreConfig exposes the embedded core configuration.
func (a *App) CoreConfig() *coreconfig.Config {
	return a.Config.CoreConfig()
}

// TelegramRunOptions builds the Telegram runtime options for this bot.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.Bot.Register(reg)

	dispatcher := coretelegram.DispatcherOptionsFrom(a.Config.Sender)
	dispatcher.OnResult = a.Recorder.MessageSent

	return coretelegram.RunOptions{
		Config:            &a.Config.Config,
		Registry:          reg,
		DispatcherOptions: dispatcher,
		Middlewares:       coretelegram.DefaultMiddlewares(&a.Config.Config, nil),
		Routes:            a.Bot.Routes(reg),
	}, nil
}

// Services returns background services that run next to the bot.
func (a *App) Services() []corecmd.Service {
	if a.Config.Metrics.Listen == "" {
		return nil
	}
	srv := metrics.NewServer(a.Config.Metrics.Listen, a.Recorder.Registry())
	return []corecmd.Service{{Name: "metrics", Run: srv.Run}}
}

// Close releases infrastructure opened by Bootstrap.
func (a *App) Close() error {
	return a.infra.Close()
}

// RunOptions returns the runner options that load, bootstrap and run this bot.
func RunOptions(configPath string) corecmd.Options {
	return corecmd.Options{
		ConfigPath:        configPath,
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return LoadConfig(path)
		},
		Bootstrap: func(ctx context.Context, cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			appCfg, ok := cfg.(*Config)
			if !ok {
				return nil, fmt.Errorf("app: unexpected config type %T", cfg)
			}
			return Bootstrap(ctx, appCfg)
		},
	}
}
