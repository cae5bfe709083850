package migration

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"

	"gosurvey/domain/survey"
	"gosurvey/internal"
	"gosurvey/internal/errors"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Target is one raw response table and the SQL table it is copied into.
type Target struct {
	Table string
	Data  *survey.Table
}

// Importer copies raw response tables into a database so the sql backend can serve them.
// Every column is stored as TEXT under its original header; missing cells become NULL.
type Importer struct {
	db  *sqlx.DB
	log *internal.Logger
}

// NewImporter creates an importer writing to db
func NewImporter(db *sqlx.DB, log *internal.Logger) *Importer {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Importer{db: db, log: log}
}

// Run imports every target, replacing tables that already exist.
func (im *Importer) Run(ctx context.Context, targets ...Target) error {
	for _, t := range targets {
		n, err := im.Import(ctx, t.Table, t.Data)
		if err != nil {
			return errors.Wrapf(err, "failed to import %s", t.Table)
		}
		im.log.Info("[Import] %s: %d rows", t.Table, n)
	}
	return nil
}

// Import replaces table with the contents of data inside one transaction and returns the rows written.
func (im *Importer) Import(ctx context.Context, table string, data *survey.Table) (int, error) {
	if !tableName.MatchString(table) {
		return 0, errors.InvalidInput(fmt.Sprintf("invalid table name %q", table))
	}
	cols := data.Columns()
	if len(cols) == 0 {
		return 0, errors.InvalidInput("nothing to import: table has no columns")
	}

	quoted := make([]string, len(cols))
	defs := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
		defs[i] = quoted[i] + " TEXT"
		marks[i] = "?"
	}

	tx, err := im.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.DatabaseError("failed to begin import", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return 0, errors.DatabaseError("failed to drop "+table, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))); err != nil {
		return 0, errors.DatabaseError("failed to create "+table, err)
	}

	insert := tx.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(quoted, ", "), strings.Join(marks, ", ")))
	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return 0, errors.DatabaseError("failed to prepare insert", err)
	}
	defer stmt.Close()

	args := make([]interface{}, len(cols))
	for row := 0; row < data.Len(); row++ {
		for i, c := range cols {
			if v := data.Cell(row, c); v.Valid {
				args[i] = v.Text
			} else {
				args[i] = nil
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, errors.DatabaseError(fmt.Sprintf("failed to insert row %d", row+1), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.DatabaseError("failed to commit import", err)
	}
	return data.Len(), nil
}

// quoteIdent quotes a column header for postgres and sqlite alike.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
