package ioschema

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnpia/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("relation does not exist")
	tests := []struct {
		msg   string
		err   error
		code  gn.ErrorCode
		cause bool
		text  string
	}{
		{"not connected", NotConnectedError(),
			errcode.DBNotConnectedError, false, "not connected"},
		{"gorm", GORMConnectionError(cause),
			errcode.SchemaGORMConnectionError, true, "gorm open"},
		{"create", CreateSchemaError(cause),
			errcode.SchemaCreateError, true, "create schema"},
		{"migrate", MigrateSchemaError(cause),
			errcode.SchemaMigrateError, true, "migrate schema"},
		{"collation", CollationError("protein_accessions", "accession", cause),
			errcode.SchemaCollationError, true,
			"collation of protein_accessions.accession"},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			var gnErr *gn.Error
			require.ErrorAs(t, v.err, &gnErr)
			assert.Equal(t, v.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			assert.Contains(t, gnErr.Err.Error(), v.text)
			assert.Contains(t, gnErr.Err.Error(), "TestErrors")
			if v.cause {
				assert.ErrorIs(t, gnErr.Err, cause)
			}
		})
	}
}

func TestCreateSchemaErrorHint(t *testing.T) {
	var gnErr *gn.Error
	require.ErrorAs(t, CreateSchemaError(errors.New("denied")), &gnErr)
	assert.Contains(t, gnErr.Msg, "gnpia create --force")
}

func TestCollationErrorVars(t *testing.T) {
	var gnErr *gn.Error
	err := CollationError("reported_proteins", "accessions", errors.New("x"))
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, []any{"reported_proteins", "accessions"}, gnErr.Vars)
}
