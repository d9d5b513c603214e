package iocompile

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnpia/pkg/errcode"
)

func NoInputError() error {
	msg := "No input files to compile"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CompileError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: no input files", fn.Name()),
	}
}

func NoOutputError() error {
	msg := "Output path for the compiled structure is not set"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CompileError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: no output file", fn.Name()),
	}
}

func BuildError(err error) error {
	msg := "Cannot build protein groups"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CompileError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: build groups: %w", fn.Name(), err),
	}
}
