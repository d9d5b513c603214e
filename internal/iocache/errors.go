package iocache

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnpia/pkg/errcode"
)

func NotOpenError() error {
	msg := "Inference cache is not open"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CacheNotOpenError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cache is not open", fn.Name()),
	}
}

func CacheError(action, dir string, err error) error {
	msg := "Cannot %s inference cache at <em>%s</em>"
	vars := []any{action, dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CacheError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s cache %s: %w", fn.Name(), action, dir, err),
	}
}
