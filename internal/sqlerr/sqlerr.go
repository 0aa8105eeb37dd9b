// Package sqlerr specifically handles database driver errors.
//
// It parses SQLSTATE codes and transport failures from pgx and decides
// whether a failed query means the database is unavailable (503), the
// input was rejected by Postgres (400) or the query failed (500).
package sqlerr

import (
	"strings"

	"github.com/rs/zerolog"
)

// Code is a coarse category for a Postgres error.
type Code string

const (
	Other              Code = "other"
	ConnectionFailure  Code = "connection_failure"
	AdminShutdown      Code = "admin_shutdown"
	TooManyConnections Code = "too_many_connections"
	QueryCanceled      Code = "query_canceled"
	InvalidDatetime    Code = "invalid_datetime"
	DatetimeOverflow   Code = "datetime_overflow"
	InvalidTextRepr    Code = "invalid_text_representation"
	UndefinedTable     Code = "undefined_table"
	UndefinedColumn    Code = "undefined_column"
	InsufficientPrivs  Code = "insufficient_privilege"
)

var pgCodes = map[string]Code{
	"57P01": AdminShutdown,
	"57P02": AdminShutdown, // crash_shutdown
	"57P03": AdminShutdown, // cannot_connect_now
	"53300": TooManyConnections,
	"57014": QueryCanceled,
	"22007": InvalidDatetime,
	"22008": DatetimeOverflow,
	"22P02": InvalidTextRepr,
	"42P01": UndefinedTable,
	"42703": UndefinedColumn,
	"42501": InsufficientPrivs,
}

// MapCode maps a SQLSTATE to a Code. Every class 08 state is a
// connection failure.
func MapCode(sqlstate string) Code {
	if code, ok := pgCodes[sqlstate]; ok {
		return code
	}
	if strings.HasPrefix(sqlstate, "08") {
		return ConnectionFailure
	}
	return Other
}

// Severity mirrors the Postgres severity levels.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// MapSeverity maps the severity text to a Severity; unknown values become ERROR.
func MapSeverity(severity string) Severity {
	switch s := Severity(strings.ToUpper(severity)); s {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return s
	default:
		return SeverityError
	}
}

// Error is a normalized Postgres error, logged next to the failed request.
type Error struct {
	Code         Code
	Severity     Severity
	DatabaseCode string
	Message      string
	SchemaName   string
	TableName    string
	ColumnName   string
	DataTypeName string

	driverErr error
}

func (e *Error) Error() string {
	return string(e.Severity) + ": " + e.Message + " (SQLSTATE " + e.DatabaseCode + ")"
}

// Unwrap returns the original driver error.
func (e *Error) Unwrap() error {
	return e.driverErr
}

// MarshalZerologObject writes the non-empty fields as a log object.
func (e *Error) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("sqlstate", e.DatabaseCode).
		Str("code", string(e.Code)).
		Str("severity", string(e.Severity))

	for _, f := range []struct{ key, value string }{
		{"schema", e.SchemaName},
		{"table", e.TableName},
		{"column", e.ColumnName},
		{"data_type", e.DataTypeName},
	} {
		if f.value != "" {
			ev.Str(f.key, f.value)
		}
	}
}
