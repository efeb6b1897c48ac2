package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/montage/internal/model"
	"github.com/papapumpkin/montage/internal/project"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the project's invariants, anchor map and sources",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, printer, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := project.Load(cfg.Project, spaceOptions(cfg, printer)...)
	if err != nil {
		printer.Error(err.Error())
		return err
	}

	errs := []error{p.Space.Validate()}
	errs = append(errs, checkSources(p)...)
	verr := errors.Join(errs...)
	printer.ValidateResult(cfg.Project, p.Space.Len(), verr)
	if verr != nil {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// checkSources reports media references missing from the catalog or
// reaching past the end of their stream.
func checkSources(p *project.Project) []error {
	var errs []error
	check := func(id string, ref model.SourceRef, typ model.StreamType, offset, length int) {
		if err := checkSource(p.Catalog, ref, typ, offset, length); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
		}
	}
	for _, it := range p.Space.Items() {
		switch v := it.(type) {
		case *model.Clip:
			check(v.ID(), v.Source(), v.Type(), v.Offset(), v.Length())
		case *model.Sequence:
			for _, si := range v.Items() {
				check(si.ID(), si.Source(), v.Type(), si.Offset(), si.Length())
			}
		}
	}
	return errs
}
