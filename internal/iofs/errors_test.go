package iofs

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnpia/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("permission denied")
	tests := []struct {
		msg  string
		err  error
		code gn.ErrorCode
		path string
		text string
	}{
		{
			msg:  "create dir",
			err:  CreateDirError("/home/u/.cache/gnpia", cause),
			code: errcode.CreateDirError,
			path: "/home/u/.cache/gnpia",
			text: "cannot create directory",
		},
		{
			msg:  "copy config",
			err:  CopyFileError("/home/u/.config/gnpia/config.yaml", cause),
			code: errcode.CopyFileError,
			path: "/home/u/.config/gnpia/config.yaml",
			text: "cannot copy file",
		},
		{
			msg:  "read filters",
			err:  ReadFileError("filters.yaml", cause),
			code: errcode.ReadFileError,
			path: "filters.yaml",
			text: "cannot read filters.yaml",
		},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			var gnErr *gn.Error
			require.ErrorAs(t, v.err, &gnErr)
			assert.Equal(t, v.code, gnErr.Code)
			assert.Equal(t, []any{v.path}, gnErr.Vars)
			assert.Contains(t, gnErr.Msg, "%s")
			assert.ErrorIs(t, gnErr.Err, cause)
			assert.Contains(t, gnErr.Err.Error(), v.text)
			// the caller is recorded
			assert.Contains(t, gnErr.Err.Error(), "TestErrors")
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile("/no/such/filters.yaml")
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.ReadFileError, gnErr.Code)
	assert.Equal(t, []any{"/no/such/filters.yaml"}, gnErr.Vars)
}
