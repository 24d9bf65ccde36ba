package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CuriousNebula/Math-Master/internal/config"
	"github.com/CuriousNebula/Math-Master/internal/dataset"
	"github.com/CuriousNebula/Math-Master/internal/distractor"
	"github.com/CuriousNebula/Math-Master/internal/llm"
	"github.com/CuriousNebula/Math-Master/internal/logger"
	"github.com/CuriousNebula/Math-Master/internal/quiz"
	"github.com/CuriousNebula/Math-Master/internal/screen"
	"github.com/CuriousNebula/Math-Master/internal/session"
	"github.com/CuriousNebula/Math-Master/internal/store"
	"github.com/CuriousNebula/Math-Master/internal/tutor"
)

// deps are the collaborators every command builds from config.
type deps struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *store.Store
	dataset  *dataset.Dataset
	selector *quiz.Selector
	tutor    *tutor.Explainer // nil when no provider is configured
}

// logTarget picks where a command logs.
type logTarget int

const (
	logToStderr logTarget = iota
	logToFile             // the TUI owns the terminal
)

// loadConfig reads config from the --config flag path.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then db_path from config, then MATHMASTER_DB and the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore loads config and opens the database only, for the
// read-only report commands.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// buildDeps loads config, opens the store and dataset and, when a
// provider is configured, the tutor.
func buildDeps(cmd *cobra.Command, target logTarget) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	var log *zap.Logger
	if target == logToFile {
		log, err = logger.NewFile(cfg)
	} else {
		log, err = logger.New(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ds, err := loadDataset(cfg)
	if err != nil {
		st.Close()
		return nil, err
	}
	if ds.Skipped() > 0 {
		log.Warn("dataset entries skipped", zap.Int("count", ds.Skipped()))
	}

	d := &deps{
		cfg:     cfg,
		logger:  log,
		store:   st,
		dataset: ds,
		selector: quiz.NewSelector(ds, distractor.New(nil, log), quiz.Config{
			ClassicCount: cfg.Game.ClassicCount,
			BatchCount:   cfg.Game.BatchCount,
		}, nil, log),
	}

	llmCfg, ok := llm.Discover(llm.Config{
		Provider: cfg.Tutor.Provider,
		Model:    cfg.Tutor.Model,
		APIKey:   cfg.Tutor.APIKey,
		BaseURL:  cfg.Tutor.BaseURL,
		Timeout:  cfg.Tutor.Timeout,
	})
	if !ok {
		log.Info("tutor disabled: no llm provider configured")
		return d, nil
	}
	provider, err := llm.New(cmd.Context(), llmCfg, st.TutorEventRepo(), log)
	if err != nil {
		log.Warn("tutor disabled", zap.String("provider", llmCfg.Provider), zap.Error(err))
		return d, nil
	}
	d.tutor = tutor.New(provider, llmCfg.Timeout, log)
	log.Info("tutor enabled", zap.String("provider", provider.Name()), zap.String("model", provider.Model()))
	return d, nil
}

func loadDataset(cfg *config.Config) (*dataset.Dataset, error) {
	if cfg.DatasetPath == "" {
		ds, err := dataset.Default()
		if err != nil {
			return nil, fmt.Errorf("load embedded dataset: %w", err)
		}
		return ds, nil
	}
	ds, err := dataset.LoadFile(cfg.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", cfg.DatasetPath, err)
	}
	return ds, nil
}

// rules maps the game config onto session rules.
func (d *deps) rules() session.Rules {
	r := session.DefaultRules()
	r.Lives = d.cfg.Game.Lives
	r.TimeBudget = d.cfg.Game.TimeBudget
	r.TimeBonus = d.cfg.Game.TimeBonus
	return r
}

func (d *deps) services() screen.Services {
	return screen.Services{
		Selector: d.selector,
		Results:  d.store.ResultRepo(),
		Answers:  d.store.AnswerRepo(),
		Daily:    d.store.DailyRepo(),
		Tutor:    d.tutor,
		Rules:    d.rules(),
		Logger:   d.logger,
	}
}

func (d *deps) Close() {
	if err := d.store.Close(); err != nil {
		d.logger.Warn("close database", zap.Error(err))
	}
	_ = d.logger.Sync()
}
