package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/roadmap/internal/config"
	"github.com/marcus/roadmap/internal/diff"
	"github.com/marcus/roadmap/internal/history"
	"github.com/marcus/roadmap/internal/report"
	"github.com/marcus/roadmap/internal/roadmap"
	"github.com/marcus/roadmap/internal/tui"
	"github.com/marcus/roadmap/internal/watch"
)

// errStale is returned by -check when the roadmap needs an update.
var errStale = errors.New("roadmap is stale")

// options mirrors the command-line flags.
type options struct {
	ProjectRoot string
	ConfigPath  string
	File        string
	DryRun      bool
	Check       bool
	Watch       bool
	Report      string
	View        bool
	Copy        bool
	History     bool
	HistoryList int
	InitConfig  bool
}

// session holds what one invocation resolved from flags and config.
type session struct {
	opts    options
	root    string
	cfg     *config.Config
	updater *roadmap.Updater
	out     io.Writer
	logger  *slog.Logger
	store   *history.Store
}

func run(ctx context.Context, opts options, out io.Writer, logger *slog.Logger) error {
	root, err := filepath.Abs(opts.ProjectRoot)
	if err != nil {
		return fmt.Errorf("resolve project path: %w", err)
	}

	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		cfgPath = filepath.Join(root, config.ConfigFile)
	}
	cfg, err := config.LoadFrom(cfgPath)
	if err != nil {
		return err
	}
	if opts.File != "" {
		cfg.Roadmap.Path = opts.File
	}

	if opts.InitConfig {
		if err := config.Save(cfgPath, cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "Configuración escrita en %s\n", cfgPath)
		return nil
	}

	s := &session{
		opts:    opts,
		root:    root,
		cfg:     cfg,
		updater: roadmap.NewUpdater(cfg.RoadmapOptions(root), logger),
		out:     out,
		logger:  logger,
	}
	defer s.close()

	switch {
	case opts.HistoryList > 0:
		return s.listHistory(ctx)
	case opts.View:
		return s.view()
	case opts.Check:
		return s.check()
	case opts.DryRun:
		return s.dryRun()
	}

	if err := s.update(ctx); err != nil {
		return err
	}
	if opts.Watch {
		return s.watch(ctx)
	}
	return nil
}

// update performs the full in-place update and its follow-up actions.
func (s *session) update(ctx context.Context) error {
	res, err := s.updater.Run()
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Roadmap actualizado.")
	return s.afterUpdate(ctx, res)
}

func (s *session) afterUpdate(ctx context.Context, res *roadmap.Result) error {
	if s.opts.History || s.cfg.History.Enabled {
		if err := s.record(ctx, res); err != nil {
			return err
		}
	}

	if s.opts.Report != "" {
		rep := report.NewReporter(res.Summary, report.ParseFormat(s.opts.Report))
		rep.BarWidth = s.cfg.Roadmap.BarWidth
		if err := report.Print(s.out, rep, s.cfg.UI.Theme); err != nil {
			return err
		}
	}

	if s.opts.Copy {
		if err := clipboard.WriteAll(res.BlockText()); err != nil {
			return fmt.Errorf("copy summary block: %w", err)
		}
		s.logger.Debug("summary block copied to clipboard")
	}
	return nil
}

func (s *session) record(ctx context.Context, res *roadmap.Result) error {
	store, err := s.historyStore(ctx)
	if err != nil {
		return err
	}
	snap, wrote, err := store.Record(ctx, res.Summary, roadmap.Fingerprint(res.Text), s.updater.Now())
	if err != nil {
		return err
	}
	if wrote {
		s.logger.Info("history snapshot recorded", "id", snap.ID, "done", snap.Overall.Done, "total", snap.Overall.Total)
	}
	return nil
}

func (s *session) historyStore(ctx context.Context) (*history.Store, error) {
	if s.store != nil {
		return s.store, nil
	}
	store, err := history.Open(ctx, s.cfg.HistoryPath(s.root), s.logger)
	if err != nil {
		return nil, err
	}
	s.store = store
	return store, nil
}

func (s *session) listHistory(ctx context.Context) error {
	store, err := s.historyStore(ctx)
	if err != nil {
		return err
	}
	snaps, err := store.Recent(ctx, s.opts.HistoryList)
	if err != nil {
		return err
	}
	_, err = io.WriteString(s.out, report.FormatHistory(snaps, time.Now()))
	return err
}

func (s *session) check() error {
	res, err := s.updater.Load()
	if err != nil {
		return err
	}
	if res.Stale() {
		fmt.Fprintf(s.out, "Roadmap desactualizado: %s\n", s.relPath())
		return errStale
	}
	fmt.Fprintln(s.out, "Roadmap al día.")
	return nil
}

func (s *session) dryRun() error {
	res, err := s.updater.Load()
	if err != nil {
		return err
	}
	d, err := diff.Unified(s.relPath(), res.Original, res.Text)
	if err != nil {
		return err
	}
	if report.IsTerminal(s.out) {
		d = diff.Highlight(d)
	}
	_, err = io.WriteString(s.out, d)
	return err
}

func (s *session) view() error {
	p := tea.NewProgram(tui.New(s.updater.Load), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

func (s *session) watch(ctx context.Context) error {
	path := s.updater.Config.Path
	w, err := watch.New(path, s.cfg.Watch.Debounce, s.logger)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer w.Stop()

	s.logger.Info("watching roadmap", "path", path)
	return watch.Run(ctx, w.Events(), path, func() ([]byte, error) {
		res, err := s.updater.Run()
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(s.out, "Roadmap actualizado.")
		return []byte(res.Text), s.afterUpdate(ctx, res)
	}, s.logger)
}

func (s *session) relPath() string {
	rel, err := filepath.Rel(s.root, s.updater.Config.Path)
	if err != nil {
		return s.updater.Config.Path
	}
	return filepath.ToSlash(rel)
}

func (s *session) close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("close history", "err", err)
		}
	}
}
