// Package repository contains the Postgres persistence layer. Each entity
// gets an interface plus a PG* implementation over pgxpool; not-found and
// constraint violations are translated to the app error taxonomy here so
// services never see driver errors.
package repository

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// buildUpdate renders a sparse UPDATE statement from a column->value map.
// Callers pass only allow-listed column names; values are always bound as
// placeholders. Columns are sorted so generated SQL is deterministic.
func buildUpdate(table string, fields map[string]any, id int64) (string, []any) {
	columns := make([]string, 0, len(fields))
	for column := range fields {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	set := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns)+1)
	for i, column := range columns {
		set = append(set, fmt.Sprintf("%s = $%d", column, i+1))
		args = append(args, fields[column])
	}
	args = append(args, id)

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(set, ", "), len(args))
	return sql, args
}
