package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/BerylCAtieno/ezdocs-api/internal/utils"
)

// ErrNotFound is returned when an update or delete matched zero rows.
var ErrNotFound = utils.ErrRecordNotFound

// Changes maps column names to their new values for a partial update.
type Changes map[string]any

// buildUpdate renders "UPDATE table SET a = ?, b = ? WHERE <where>" with the
// columns in a stable order. Columns outside allowed are rejected.
func buildUpdate(table string, allowed map[string]bool, changes Changes, where string) (string, []any, error) {
	columns := make([]string, 0, len(changes))
	for col := range changes {
		if !allowed[col] {
			return "", nil, fmt.Errorf("column %q cannot be updated on %s", col, table)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	sets := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		sets = append(sets, fmt.Sprintf("%q = ?", col))
		args = append(args, changes[col])
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(sets, ", "), where)
	return query, args, nil
}

// execAffecting runs a write and turns zero affected rows into ErrNotFound.
func execAffecting(ctx context.Context, db *sqlx.DB, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}
