package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/deppfellow/concerts/internal/errs"
)

// ErrCode reports the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	return Other
}

// ConvertPgError converts a raw PostgreSQL error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// sqliteColumnRe pulls "table.column" out of messages such as
// "NOT NULL constraint failed: bands.hometown".
var sqliteColumnRe = regexp.MustCompile(`constraint failed: (\w+)\.(\w+)`)

// ConvertSQLiteError converts a modernc SQLite error.
//
// SQLite reports no structured table/column metadata; both are recovered
// from the message when it carries them.
func ConvertSQLiteError(src *sqlite.Error) *Error {
	msg := src.Error()

	sqlErr := &Error{
		Code:         Other,
		Severity:     SeverityError,
		DatabaseCode: strconv.Itoa(src.Code()),
		Message:      msg,
		driverErr:    src,
	}

	switch src.Code() {
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		sqlErr.Code = NotNullViolation
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		sqlErr.Code = ForeignKeyViolation
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		sqlErr.Code = UniqueViolation
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		sqlErr.Code = CheckViolation
	default:
		// Primary result code only: fall back to the message.
		if src.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			switch {
			case strings.Contains(msg, "NOT NULL constraint failed"):
				sqlErr.Code = NotNullViolation
			case strings.Contains(msg, "FOREIGN KEY constraint failed"):
				sqlErr.Code = ForeignKeyViolation
			case strings.Contains(msg, "UNIQUE constraint failed"):
				sqlErr.Code = UniqueViolation
			case strings.Contains(msg, "CHECK constraint failed"):
				sqlErr.Code = CheckViolation
			}
		} else if strings.Contains(msg, "no such table") {
			sqlErr.Code = UndefinedTable
		} else if strings.Contains(msg, "no such column") {
			sqlErr.Code = UndefinedColumn
		} else if strings.Contains(msg, "syntax error") {
			sqlErr.Code = SyntaxError
		}
	}

	if m := sqliteColumnRe.FindStringSubmatch(msg); len(m) == 3 {
		sqlErr.TableName = m[1]
		sqlErr.ColumnName = m[2]
	}

	return sqlErr
}

// generateErrorCode creates "<DOMAIN>_<ACTION>" codes, e.g. BAND_REQUIRED.
//
// DOMAIN comes from the table name, crudely singularized.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatUserFriendlyMessage produces a message meant for end users, not logs.
func formatUserFriendlyMessage(sqlErr *Error) string {
	switch sqlErr.Code {
	case ForeignKeyViolation:
		// Only a "<entity>_id" column names the missing entity; the table is the referencing one.
		entityName := "record"
		if strings.HasSuffix(strings.ToLower(sqlErr.ColumnName), "_id") {
			entityName = getEntityName("", sqlErr.ColumnName)
		}
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		return fmt.Sprintf("A %s with this identifier already exists", getEntityName(sqlErr.TableName, ""))

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName infers an entity name: a "_id" column wins, then the
// singularized table name, then "record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case into Title Case: "band_id" -> "Band Id".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

var uniqueConstraintRe = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// extractColumnForUniqueViolation infers the column from a constraint named
// "unique_<table>_<column>" or "<table>_<column>_key".
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	matches := uniqueConstraintRe.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// tableFromMessage reads the "table:<name>:" marker repositories put on their errors.
func tableFromMessage(err error) string {
	const tablePrefix = "table:"

	errMsg := err.Error()
	if !strings.Contains(errMsg, tablePrefix) {
		return ""
	}
	return strings.Split(strings.SplitN(errMsg, tablePrefix, 2)[1], ":")[0]
}

// normalize finds a driver error in err's chain and converts it.
func normalize(err error) *Error {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ConvertPgError(pgErr)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return ConvertSQLiteError(liteErr)
	}

	return nil
}

// HandleError converts a low-level database error into an API error.
//
//   - *errs.HTTPError: returned unchanged
//   - constraint violations: 400 with a generated code
//   - other driver errors: 500
//   - sql.ErrNoRows / pgx.ErrNoRows: 404 naming the entity when known
//   - anything else: 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	if sqlErr := normalize(err); sqlErr != nil {
		if sqlErr.TableName == "" {
			sqlErr.TableName = tableFromMessage(err)
		}

		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewBadRequestError(userMessage, false, &errorCode, nil)

		case UniqueViolation:
			columnName := extractColumnForUniqueViolation(sqlErr.ConstraintName)
			if columnName != "" {
				userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(columnName))
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{
				{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is required",
				},
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors)

		case CheckViolation:
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil)

		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		if table := tableFromMessage(err); table != "" {
			return errs.NewNotFoundError(fmt.Sprintf("%s not found", getEntityName(table, "")), true, nil)
		}
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
