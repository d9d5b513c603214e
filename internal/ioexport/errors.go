package ioexport

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnpia/pkg/errcode"
)

func FormatError(format string) error {
	msg := "Unknown output format <em>%s</em>, use tsv, csv or json"
	vars := []any{format}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExportFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown format %q", fn.Name(), format),
	}
}

func WriteError(path string, err error) error {
	msg := "Cannot write reported proteins to <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExportWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: write %s: %w", fn.Name(), path, err),
	}
}

func DBError(table string, err error) error {
	msg := "Cannot export reported proteins to the <em>%s</em> table"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExportDBError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: export to %s: %w", fn.Name(), table, err),
	}
}

func NotConnectedError() error {
	msg := "Database is not connected, cannot export reported proteins"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: database is not connected", fn.Name()),
	}
}
