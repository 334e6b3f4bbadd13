package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/frahmantamala/funcionarios/internal/backend"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// Tables gives PostgREST-like row access to any table in the database. Rows
// are scanned into maps and handed to callers through their JSON form, so
// destinations use the same json tags as with the hosted backend.
type Tables struct {
	db *sqlx.DB
}

func NewTables(db *sqlx.DB) *Tables {
	return &Tables{db: db}
}

func (t *Tables) columns(cols string) (string, error) {
	cols = strings.TrimSpace(cols)
	if cols == "" || cols == "*" {
		return "*", nil
	}
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if !backend.ValidIdentifier(p) {
			return "", fmt.Errorf("%w: %q", backend.ErrInvalidTable, p)
		}
		parts[i] = p
	}
	return strings.Join(parts, ", "), nil
}

func (t *Tables) Select(ctx context.Context, table string, query backend.Query, dest any) error {
	if !backend.ValidIdentifier(table) {
		return fmt.Errorf("%w: %q", backend.ErrInvalidTable, table)
	}
	cols, err := t.columns(query.Columns)
	if err != nil {
		return err
	}

	var (
		sb   strings.Builder
		args []any
	)
	fmt.Fprintf(&sb, "SELECT %s FROM %s", cols, table)
	for i, f := range query.Filters {
		if !backend.ValidIdentifier(f.Column) {
			return fmt.Errorf("%w: %q", backend.ErrInvalidTable, f.Column)
		}
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		fmt.Fprintf(&sb, "%s = ?", f.Column)
		args = append(args, f.Value)
	}
	if query.Order != nil {
		if !backend.ValidIdentifier(query.Order.Column) {
			return fmt.Errorf("%w: %q", backend.ErrInvalidTable, query.Order.Column)
		}
		dir := "DESC"
		if query.Order.Ascending {
			dir = "ASC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s", query.Order.Column, dir)
	}

	rows, err := t.queryMaps(ctx, sb.String(), args...)
	if err != nil {
		return err
	}

	if query.Single {
		if len(rows) != 1 {
			return &backend.Error{
				Status:  http.StatusNotAcceptable,
				Code:    backend.ErrCodeSingleRow,
				Message: "JSON object requested, multiple (or no) rows returned",
				Details: fmt.Sprintf("The result contains %d rows", len(rows)),
			}
		}
		return decode(rows[0], dest)
	}
	return decode(rows, dest)
}

// Insert writes one row and returns its stored representation. row may be any
// value that marshals to a JSON object.
func (t *Tables) Insert(ctx context.Context, table string, row any, dest any) error {
	if !backend.ValidIdentifier(table) {
		return fmt.Errorf("%w: %q", backend.ErrInvalidTable, table)
	}

	values, err := toMap(row)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return &backend.Error{Status: http.StatusBadRequest, Code: "PGRST204", Message: "Empty row"}
	}

	cols := make([]string, 0, len(values))
	for col := range values {
		if !backend.ValidIdentifier(col) {
			return fmt.Errorf("%w: %q", backend.ErrInvalidTable, col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		placeholders[i] = "?"
		args[i] = values[col]
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	rows, err := t.queryMaps(ctx, stmt, args...)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return decode(rows[0], dest)
}

func (t *Tables) Ping(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

func (t *Tables) queryMaps(ctx context.Context, stmt string, args ...any) ([]map[string]any, error) {
	rows, err := t.db.QueryxContext(ctx, t.db.Rebind(stmt), args...)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	out := []map[string]any{}
	for rows.Next() {
		m := map[string]any{}
		if err := rows.MapScan(m); err != nil {
			return nil, mapDBError(err)
		}
		for k, v := range m {
			m[k] = normalize(k, v)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError(err)
	}
	return out, nil
}

// timestampLayouts are the text forms SQLite hands back for timestamp columns
// it cannot type, such as RETURNING results.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func normalize(column string, v any) any {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	s, ok := v.(string)
	if !ok || !strings.HasSuffix(column, "_at") {
		return v
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return v
}

func toMap(row any) (map[string]any, error) {
	if m, ok := row.(map[string]any); ok {
		return m, nil
	}
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("marshal row: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("row must encode to an object: %w", err)
	}
	return m, nil
}

func decode(src any, dest any) error {
	if dest == nil {
		return nil
	}
	raw, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode rows: %w", err)
	}
	return nil
}

// mapDBError turns driver errors into backend errors carrying PostgreSQL
// codes. SQLite has no SQLSTATE, so its messages are matched instead.
func mapDBError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &backend.Error{
			Status:  statusForCode(pgErr.Code),
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Details: pgErr.Detail,
			Hint:    pgErr.Hint,
		}
	}

	msg := err.Error()
	var code string
	switch {
	case strings.Contains(msg, "no such table"):
		code = backend.ErrCodeUndefinedTable
	case strings.Contains(msg, "UNIQUE constraint failed"):
		code = backend.ErrCodeUniqueViolation
	case strings.Contains(msg, "CHECK constraint failed"):
		code = backend.ErrCodeCheckViolation
	case strings.Contains(msg, "NOT NULL constraint failed"):
		code = backend.ErrCodeNotNullViolation
	default:
		return err
	}
	return &backend.Error{Status: statusForCode(code), Code: code, Message: msg}
}

func statusForCode(code string) int {
	switch code {
	case backend.ErrCodeUndefinedTable:
		return http.StatusNotFound
	case backend.ErrCodePermissionDenied:
		return http.StatusForbidden
	case backend.ErrCodeUniqueViolation:
		return http.StatusConflict
	case backend.ErrCodeCheckViolation, backend.ErrCodeNotNullViolation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
