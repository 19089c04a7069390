package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"facilitydash/adapters/coercer"
	"facilitydash/domain/facility"
	"facilitydash/internal"
	"facilitydash/internal/errors"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// OpenDatabase connects to the database holding the facility table
func OpenDatabase(ctx context.Context, driver, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, driver, url)
	if err != nil {
		return nil, errors.LoadError(fmt.Errorf("failed to connect to %s database: %w", driver, err))
	}
	return db, nil
}

// LoadTable reads every row of table with the same typing rules as file sources.
// Encoding is ignored: drivers already return text as UTF-8.
func LoadTable(ctx context.Context, db *sqlx.DB, table string, opts Options) (*facility.Dataset, error) {
	if db == nil {
		return nil, errors.LoadError(fmt.Errorf("no database connection for table %s", table))
	}
	start := time.Now()
	query := "SELECT * FROM " + quoteIdent(table)

	rows, err := db.QueryxContext(ctx, query)
	if err != nil {
		return nil, errors.LoadError(fmt.Errorf("failed to query %s: %w", table, err))
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.LoadError(err)
	}

	raw := [][]string{columns}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, errors.LoadError(fmt.Errorf("failed to scan row %d: %w", len(raw), err))
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = cellString(v)
		}
		raw = append(raw, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.LoadError(err)
	}

	ds, err := BuildDataset(raw, opts, coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()))
	if err != nil {
		return nil, errors.LoadError(err)
	}

	internal.DefaultLogger.Info("[SQLSource] %s loaded in %.2fms (%d columns, %d rows)",
		table, float64(time.Since(start).Nanoseconds())/1e6, len(ds.Columns), ds.Len())
	return ds, nil
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// quoteIdent quotes a possibly schema-qualified identifier
func quoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}
