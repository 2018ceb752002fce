package corpus

import (
	"context"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/temporal-IPA/yidmfa/internal/logging"
	"github.com/temporal-IPA/yidmfa/pkg/brackets"
	"github.com/temporal-IPA/yidmfa/pkg/conversion"
	"github.com/temporal-IPA/yidmfa/pkg/textgrid"
)

// NormalizeReport summarizes a normalization run.
type NormalizeReport struct {
	Files         int
	ChangedFiles  int
	ChangedLabels int
}

// NormalizeFiles rewrites the interval labels of every file in place
// with brackets.Normalize. Interval counts and boundaries are kept and
// each file is written back in its own encoding. Unchanged files are not
// rewritten. Per-file failures are collected and the remaining files
// still run.
func NormalizeFiles(ctx context.Context, paths []string, enc conversion.EncodingID, logger *slog.Logger) (NormalizeReport, error) {
	log := logging.OrDiscard(logger)
	var (
		rep  NormalizeReport
		errs *multierror.Error
	)
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		doc, err := textgrid.ReadFile(p, enc)
		if err != nil {
			log.Warn("skipping transcript", "file", p, "error", err)
			errs = multierror.Append(errs, err)
			continue
		}
		rep.Files++
		changed := doc.MapLabels(brackets.Normalize)
		if changed == 0 {
			continue
		}
		if err := doc.Save(); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		rep.ChangedFiles++
		rep.ChangedLabels += changed
		log.Debug("normalized", "file", p, "labels", changed)
	}
	return rep, errs.ErrorOrNil()
}

// ReadTextGrids parses every file. Unreadable files are collected in
// the returned error; the parsed ones are still returned.
func ReadTextGrids(ctx context.Context, paths []string, enc conversion.EncodingID) ([]*textgrid.TextGrid, error) {
	var (
		docs []*textgrid.TextGrid
		errs *multierror.Error
	)
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return docs, err
		}
		doc, err := textgrid.ReadFile(p, enc)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		docs = append(docs, doc.TextGrid)
	}
	return docs, errs.ErrorOrNil()
}
