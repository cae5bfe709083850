package sqlsource

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"gosurvey/domain/survey"
	"gosurvey/internal"
	"gosurvey/internal/errors"
)

// Open connects to the survey database. driver is "postgres" or "sqlite".
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	return db, nil
}

// Dial prepares a connection pool without contacting the server. Connections are made per query,
// so an unreachable database surfaces as a failed query rather than here.
func Dial(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.DatabaseError("failed to open database", err)
	}
	return db, nil
}

// Repository reads response tables with ad-hoc queries
type Repository struct {
	db  *sqlx.DB
	log *internal.Logger
}

// NewRepository creates a new repository over db
func NewRepository(db *sqlx.DB, log *internal.Logger) *Repository {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Repository{db: db, log: log}
}

// QueryTable runs query and returns the result as a response table. Every column is read as text
// and NULL becomes missing. Any database failure is reported as SOURCE_UNAVAILABLE.
func (r *Repository) QueryTable(ctx context.Context, query string) (*survey.Table, error) {
	start := time.Now()
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, errors.SourceUnavailable(query, errors.DatabaseError("failed to run query", err))
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, errors.SourceUnavailable(query, errors.DatabaseError("failed to read columns", err))
	}

	var records [][]string
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, errors.SourceUnavailable(query, errors.DatabaseError("failed to scan row", err))
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = cellText(v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.SourceUnavailable(query, errors.DatabaseError("failed to iterate rows", err))
	}

	r.log.Info("[Repository] query returned %d columns, %d rows in %s", len(headers), len(records), time.Since(start))
	return survey.NewTable(headers, records), nil
}

func cellText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

// Close closes the underlying connection pool
func (r *Repository) Close() error {
	return r.db.Close()
}
