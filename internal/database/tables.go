package database

import (
	"context"

	"github.com/google/uuid"
)

const listTables = `
SELECT id, table_number, capacity, is_available, created_at
FROM tables
ORDER BY table_number
`

func (q *Queries) ListTables(ctx context.Context) ([]Table, error) {
	rows, err := q.db.Query(ctx, listTables)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.ID, &t.TableNumber, &t.Capacity, &t.IsAvailable, &t.CreatedAt); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

const getTable = `
SELECT id, table_number, capacity, is_available, created_at
FROM tables
WHERE id = $1
`

func (q *Queries) GetTable(ctx context.Context, id uuid.UUID) (Table, error) {
	row := q.db.QueryRow(ctx, getTable, id)
	var t Table
	err := row.Scan(&t.ID, &t.TableNumber, &t.Capacity, &t.IsAvailable, &t.CreatedAt)
	return t, err
}

const setTableAvailability = `
UPDATE tables
SET is_available = $2
WHERE id = $1
RETURNING id, table_number, capacity, is_available, created_at
`

type SetTableAvailabilityParams struct {
	ID          uuid.UUID
	IsAvailable bool
}

func (q *Queries) SetTableAvailability(ctx context.Context, arg SetTableAvailabilityParams) (Table, error) {
	row := q.db.QueryRow(ctx, setTableAvailability, arg.ID, arg.IsAvailable)
	var t Table
	err := row.Scan(&t.ID, &t.TableNumber, &t.Capacity, &t.IsAvailable, &t.CreatedAt)
	return t, err
}

const getTableStats = `
SELECT COUNT(*), COUNT(*) FILTER (WHERE is_available)
FROM tables
`

func (q *Queries) GetTableStats(ctx context.Context) (TableStatsRow, error) {
	row := q.db.QueryRow(ctx, getTableStats)
	var s TableStatsRow
	err := row.Scan(&s.Total, &s.Available)
	return s, err
}
