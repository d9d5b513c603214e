package ioinfer

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnpia/pkg/errcode"
	"github.com/gnames/gnpia/pkg/scoring"
)

func NoCompiledFileError() error {
	msg := "Compiled file for inference is not set"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.InferenceError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: no compiled file", fn.Name()),
	}
}

func FilterError(source string, err error) error {
	msg := "Cannot use filters from <em>%s</em>"
	vars := []any{source}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.InferenceFilterError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: filters of %s: %w", fn.Name(), source, err),
	}
}

func UnknownScoringError(method string) error {
	msg := "Unknown scoring <em>%s</em>, use one of %v"
	vars := []any{method, scoring.Methods}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.InferenceUnknownScoringError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown scoring %q", fn.Name(), method),
	}
}

func ScoringError(err error) error {
	msg := "Cannot set up protein scoring"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.InferenceUnknownScoringError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}

func SettingsError(setting string, err error) error {
	msg := "Wrong inference setting <em>%s</em>"
	vars := []any{setting}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.InferenceError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s: %w", fn.Name(), setting, err),
	}
}
