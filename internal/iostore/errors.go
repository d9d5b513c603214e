package iostore

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnpia/pkg/config"
	"github.com/gnames/gnpia/pkg/errcode"
)

func OpenError(path string, err error) error {
	msg := "Cannot open compiled file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: open %s: %w", fn.Name(), path, err),
	}
}

func WriteError(table string, err error) error {
	msg := "Cannot save <em>%s</em> of the compiled structure"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: write %s: %w", fn.Name(), table, err),
	}
}

func ReadError(table string, err error) error {
	msg := "Cannot read <em>%s</em> of the compiled structure"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: read %s: %w", fn.Name(), table, err),
	}
}

func VersionError(path, version string) error {
	msg := `Compiled file <em>%s</em> has format version <em>%s</em>,
the oldest supported version is <em>%s</em>. Run <em>gnpia compile</em> again.`
	vars := []any{path, version, config.MinVersionCompiled}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreVersionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: version %q of %s is not supported",
			fn.Name(), version, path),
	}
}
