package sqlerr

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/deppfellow/hydro-gateway/internal/errs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/puddle/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FromError returns the normalized form of the first *pgconn.PgError in
// err's chain. Transport failures carry no SQLSTATE and report false.
func FromError(err error) (*Error, bool) {
	var pgerr *pgconn.PgError
	if !errors.As(err, &pgerr) {
		return nil, false
	}
	return ConvertPgError(pgerr), true
}

// ErrCode reports the Code of the Postgres error in err's chain, or Other.
func ErrCode(err error) Code {
	if e, ok := FromError(err); ok {
		return e.Code
	}
	return Other
}

// ConvertPgError converts a pgconn.PgError into an *Error. The
// unlocalized severity is preferred so lc_messages does not matter.
func ConvertPgError(src *pgconn.PgError) *Error {
	severity := src.SeverityUnlocalized
	if severity == "" {
		severity = src.Severity
	}

	return &Error{
		Code:         MapCode(src.Code),
		Severity:     MapSeverity(severity),
		DatabaseCode: src.Code,
		Message:      src.Message,
		SchemaName:   src.SchemaName,
		TableName:    src.TableName,
		ColumnName:   src.ColumnName,
		DataTypeName: src.DataTypeName,
		driverErr:    src,
	}
}

// IsUnavailable reports whether err means the database could not be
// reached or refused to serve, as opposed to a query that ran and failed.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}

	switch ErrCode(err) {
	case ConnectionFailure, AdminShutdown, TooManyConnections:
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	if errors.Is(err, puddle.ErrClosedPool) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	if pgconn.Timeout(err) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// IsInvalidInput reports whether Postgres rejected a bound parameter,
// e.g. a startDate that is not a timestamp.
func IsInvalidInput(err error) bool {
	switch ErrCode(err) {
	case InvalidDatetime, DatetimeOverflow, InvalidTextRepr:
		return true
	}
	return false
}

// HandleQueryError converts a failed query into an *errs.HTTPError that
// carries message and wraps err:
//   - unavailable database: 503
//   - parameter rejected by Postgres: 400
//   - anything else: 500
//
// An err that already is an *errs.HTTPError is returned unchanged.
func HandleQueryError(err error, message string) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	switch {
	case IsUnavailable(err):
		return errs.NewServiceUnavailableError(message, err)
	case IsInvalidInput(err):
		return errs.NewBadRequestError(message, nil).WithCause(err)
	default:
		return errs.NewInternalServerError(message, err)
	}
}

// HandleError is HandleQueryError with the generic status text as message.
func HandleError(err error) error {
	switch {
	case IsUnavailable(err):
		return HandleQueryError(err, "Service Unavailable")
	case IsInvalidInput(err):
		return HandleQueryError(err, "Bad Request")
	default:
		return HandleQueryError(err, "Internal Server Error")
	}
}

// Summary returns a short human-readable description of err for logs,
// e.g. "Undefined Table: relation \"weir\" does not exist".
func Summary(err error) string {
	if e, ok := FromError(err); ok {
		return humanizeText(string(e.Code)) + ": " + e.Message
	}
	if IsUnavailable(err) {
		return "Database Unavailable: " + err.Error()
	}
	return err.Error()
}

// humanizeText converts snake_case into Title Case.
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}
