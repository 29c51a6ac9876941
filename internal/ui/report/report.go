// # internal/ui/report/report.go

// Package report renders evaluation results for people and machines.
package report

import (
	"astral/internal/core/config"
	"astral/internal/core/errors"
	"astral/internal/engine/rules"
	"astral/internal/ui/report/formats"
	"encoding/json"
	"io"
)

type Options struct {
	Format string
	Color  bool
	// Root anchors relative paths in SARIF output.
	Root string
}

// Render writes result to w in the requested format.
func Render(w io.Writer, opts Options, rs rules.RuleSet, result rules.EvaluationResult) error {
	switch opts.Format {
	case "", config.FormatText:
		return writeText(w, opts, result)
	case config.FormatJSON:
		return writeJSON(w, result)
	case config.FormatSARIF:
		data, err := formats.GenerateSARIF(opts.Root, rs, result)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "encode sarif")
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	default:
		return errors.AddContext(
			errors.Newf(errors.CodeValidationError, "unknown output format %q", opts.Format),
			errors.CtxField, "output.format")
	}
}

type jsonReport struct {
	RunID       string             `json:"run_id"`
	Evaluated   int                `json:"evaluated"`
	Diagnostics []rules.Diagnostic `json:"diagnostics"`
}

func writeJSON(w io.Writer, result rules.EvaluationResult) error {
	out := jsonReport{
		RunID:       result.RunID,
		Evaluated:   result.Evaluated,
		Diagnostics: result.Diagnostics,
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []rules.Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "encode json report")
	}
	return nil
}
