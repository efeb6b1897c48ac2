package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/montage/internal/command"
	"github.com/papapumpkin/montage/internal/config"
	"github.com/papapumpkin/montage/internal/journal"
	"github.com/papapumpkin/montage/internal/model"
	"github.com/papapumpkin/montage/internal/project"
	"github.com/papapumpkin/montage/internal/telemetry"
	"github.com/papapumpkin/montage/internal/ui"
)

var (
	errUnknownItem = errors.New("no such item")
	errNotSequence = errors.New("not a sequence")
)

// session is one command invocation over a project file: the loaded
// project, the undo stack edits are recorded on, and the optional journal
// and telemetry sinks.
type session struct {
	cfg     config.Config
	path    string
	proj    *project.Project
	stack   *command.Stack
	journal *journal.Journal
	emitter *telemetry.Emitter
	rec     *telemetry.Recorder
	printer *ui.Printer
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func loadConfig(cmd *cobra.Command) (config.Config, *ui.Printer, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, ui.NewWriter(cmd.ErrOrStderr(), cfg.Render.Color), nil
}

// spaceOptions routes model warnings to the printer and relaxes anchor
// checks when strict_anchors is off.
func spaceOptions(cfg config.Config, printer *ui.Printer) []model.SpaceOption {
	opts := []model.SpaceOption{model.WithWarnings(printer.Warn)}
	if !cfg.StrictAnchors {
		opts = append(opts, model.WithLenientAnchors(printer.Warn))
	}
	return opts
}

// openSession loads the configured project file.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, printer, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	proj, err := project.Load(cfg.Project, spaceOptions(cfg, printer)...)
	if err != nil {
		return nil, err
	}
	return newSession(cmd, cfg, printer, proj)
}

func newSession(cmd *cobra.Command, cfg config.Config, printer *ui.Printer, proj *project.Project) (*session, error) {
	s := &session{
		cfg:     cfg,
		path:    cfg.Project,
		proj:    proj,
		stack:   command.NewStack(cfg.UndoLimit),
		printer: printer,
	}
	if err := s.openSinks(commandContext(cmd)); err != nil {
		_ = s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) openSinks(ctx context.Context) error {
	if s.cfg.JournalDB != "" {
		j, err := journal.Open(ctx, s.cfg.JournalDB)
		if err != nil {
			return err
		}
		s.journal = j
	}
	if s.cfg.Telemetry != "" {
		id := model.NewID()
		path := telemetry.SessionPath(s.cfg.Telemetry, id, time.Now())
		em, err := telemetry.NewEmitter(path)
		if err != nil {
			return err
		}
		s.emitter = em
		s.rec = telemetry.NewRecorder(em, id)
		s.rec.Start(s.path)
		s.rec.WatchSpace(s.proj.Space)
		s.rec.WatchStack(s.stack)
	}
	return nil
}

// journalKey identifies the project in the journal.
func (s *session) journalKey() string {
	abs, err := filepath.Abs(s.path)
	if err != nil {
		return s.path
	}
	return abs
}

// commit writes the project file and journals it under label.
func (s *session) commit(ctx context.Context, label string) error {
	data, err := project.Marshal(s.proj)
	if err != nil {
		return err
	}
	if err := project.WriteFile(s.path, data); err != nil {
		return err
	}
	if s.stack != nil {
		s.stack.SetClean()
	}
	var rev int64
	if s.journal != nil {
		if rev, err = s.journal.Record(ctx, s.journalKey(), label, data); err != nil {
			return err
		}
	}
	s.printer.Saved(s.path, rev)
	return nil
}

func (s *session) close() error {
	var errs []error
	if s.rec != nil {
		errs = append(errs, s.rec.Close())
	}
	if s.emitter != nil {
		errs = append(errs, s.emitter.Close())
	}
	if s.journal != nil {
		errs = append(errs, s.journal.Close())
	}
	return errors.Join(errs...)
}

// edit runs fn on the configured project and commits the result when fn
// succeeds. An empty label takes the text of the last recorded command.
func edit(cmd *cobra.Command, label string, fn func(s *session) error) (err error) {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.close()) }()

	if err := fn(s); err != nil {
		return err
	}
	if s.stack.Clean() {
		s.printer.Info("nothing changed")
		return nil
	}
	if label == "" {
		label = s.stack.UndoText()
	}
	s.printer.Done(label)
	return s.commit(commandContext(cmd), label)
}

func (s *session) item(id string) (model.Item, error) {
	it, ok := s.proj.Space.FindItem(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownItem, id)
	}
	return it, nil
}

func (s *session) sequence(id string) (*model.Sequence, error) {
	it, err := s.item(id)
	if err != nil {
		return nil, err
	}
	seq, ok := it.(*model.Sequence)
	if !ok {
		return nil, fmt.Errorf("%w: %s is a %s", errNotSequence, id, it.Kind())
	}
	return seq, nil
}

// anchorable finds a top-level item or a sequence item by ID.
func (s *session) anchorable(id string) (model.Anchorable, error) {
	a, ok := s.proj.Space.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownItem, id)
	}
	return a, nil
}
