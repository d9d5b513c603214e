package inference

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnpia/pkg/errcode"
)

func NoScoringError(method Method) error {
	msg := "Inference method <em>%s</em> needs a scoring"
	vars := []any{method}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.InferenceNoScoringError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: no scoring for %s", fn.Name(), method),
	}
}

func UnknownMethodError(method string) error {
	msg := "Unknown inference method <em>%s</em>, use one of %v"
	vars := []any{method, Methods}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.InferenceUnknownMethodError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown inference method %q", fn.Name(), method),
	}
}

func InferError(method Method, err error) error {
	msg := "Inference with <em>%s</em> failed"
	vars := []any{method}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.InferenceError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s: %w", fn.Name(), method, err),
	}
}
