package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError
	DBCountRowsError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaCollationError

	// Input errors
	InputUnknownFormatError
	InputOpenError
	InputParseError
	InputAllFilesFailedError

	// Compiled structure errors
	StoreOpenError
	StoreWriteError
	StoreReadError
	StoreVersionError
	CompileError

	// Inference configuration errors
	InferenceNoScoringError
	InferenceUnknownMethodError
	InferenceUnknownScoringError
	InferenceFilterError
	InferenceError

	// Cache errors
	CacheNotOpenError
	CacheError

	// Export errors
	ExportFormatError
	ExportWriteError
	ExportDBError
)
