package lifecycle

import (
	"context"

	"github.com/gnames/gnpia/pkg/config"
)

// Compiler defines the interface for compiling search engine results
// into the intermediate structure.
//
// Compilation reads all input files of cfg.Compile, builds the Group
// graph and saves it to cfg.Compile.OutputFile, replacing an existing
// file. A file that cannot be read is skipped, compilation fails only
// if no file could be read.
type Compiler interface {
	// Compile reads the input files, builds the Group graph and saves
	// the compiled structure.
	Compile(ctx context.Context, cfg *config.Config) error
}
