package lifecycle

import (
	"context"

	"github.com/gnames/gnpia/pkg/config"
)

// Inferrer defines the interface for protein inference on a compiled
// structure.
//
// Configuration errors (unknown method, missing scoring, bad filters)
// are reported before any work starts. Reported proteins are written to
// the configured output and, if requested, exported to PostgreSQL.
type Inferrer interface {
	// Infer loads cfg.Inference.CompiledFile, runs the configured
	// inference method and exports the ranked proteins.
	Infer(ctx context.Context, cfg *config.Config) error
}
