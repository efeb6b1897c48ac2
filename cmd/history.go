package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/montage/internal/journal"
	"github.com/papapumpkin/montage/internal/project"
)

var errNoJournal = errors.New("journal disabled (journal_db is empty)")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved revisions of the project, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var revertCmd = &cobra.Command{
	Use:   "revert [revision]",
	Short: "Restore the project file to a saved revision",
	Long: `Restores the project file to a saved revision and records the result as a
new revision. Without an argument, restores the newest revision, discarding
changes made to the file outside montage since then.`,
	Args: cobra.MaximumNArgs(1),
	RunE:  runRevert,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of revisions to list (0 for all)")
	historyCmd.Flags().Int("prune", 0, "delete all but the newest N revisions first")
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(revertCmd)
}

// openJournal opens the configured journal without loading the project.
func openJournal(cmd *cobra.Command) (*session, error) {
	cfg, printer, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.JournalDB == "" {
		return nil, errNoJournal
	}
	j, err := journal.Open(commandContext(cmd), cfg.JournalDB)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, path: cfg.Project, journal: j, printer: printer}, nil
}

func runHistory(cmd *cobra.Command, _ []string) (err error) {
	limit, _ := cmd.Flags().GetInt("limit")
	prune, _ := cmd.Flags().GetInt("prune")

	s, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.close()) }()

	ctx := commandContext(cmd)
	if prune > 0 {
		n, err := s.journal.Prune(ctx, s.journalKey(), prune)
		if err != nil {
			return err
		}
		s.printer.Info(fmt.Sprintf("pruned %d revision(s)", n))
	}
	revs, err := s.journal.List(ctx, s.journalKey(), limit)
	if err != nil {
		return err
	}
	s.printer.Revisions(revs)
	return nil
}

func runRevert(cmd *cobra.Command, args []string) (err error) {
	var id int64
	if len(args) == 1 {
		if id, err = strconv.ParseInt(args[0], 10, 64); err != nil {
			return fmt.Errorf("invalid revision %q: %w", args[0], err)
		}
	}

	s, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.close()) }()

	ctx := commandContext(cmd)
	var rev journal.Revision
	if len(args) == 0 {
		rev, err = s.journal.Latest(ctx, s.journalKey())
	} else {
		rev, err = s.journal.Get(ctx, id)
	}
	if err != nil {
		return err
	}
	if rev.Project != s.journalKey() {
		return fmt.Errorf("revision %d belongs to %s", rev.ID, rev.Project)
	}
	// Refuse documents that no longer load.
	if s.proj, err = project.Unmarshal(rev.Document, spaceOptions(s.cfg, s.printer)...); err != nil {
		return fmt.Errorf("revision %d: %w", rev.ID, err)
	}
	s.printer.Reverted(rev.ID, rev.Label)
	return s.commit(ctx, fmt.Sprintf("revert to %d", rev.ID))
}
