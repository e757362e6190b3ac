package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"DineCast/internal/domain/models"
	"DineCast/internal/domain/repository"
)

// ClickHouseSalesStore implements SalesStore for ClickHouse.
type ClickHouseSalesStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseSalesStore creates ClickHouse sales storage.
func NewClickHouseSalesStore(db *sql.DB, table string) repository.SalesStore {
	return &ClickHouseSalesStore{db: db, table: table}
}

// SchemaStatements returns idempotent DDL for the sales table.
func SchemaStatements(table string) []string {
	return []string{fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		date Date,
		product LowCardinality(String),
		quantity UInt32,
		unit_price Float64
	) ENGINE = MergeTree()
	ORDER BY (product, date)`, table)}
}

func (s *ClickHouseSalesStore) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseSalesStore) Store(ctx context.Context, sale *models.SaleRecord) error {
	q := fmt.Sprintf("INSERT INTO %s (date, product, quantity, unit_price) VALUES (?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q, sale.Date, sale.Product, sale.Quantity, sale.UnitPrice)
	return err
}

func (s *ClickHouseSalesStore) StoreBatch(ctx context.Context, sales []*models.SaleRecord) error {
	if len(sales) == 0 {
		return nil
	}
	// Multi-row VALUES inserts, chunked to bound statement size.
	const chunkSize = 2000
	for start := 0; start < len(sales); start += chunkSize {
		end := start + chunkSize
		if end > len(sales) {
			end = len(sales)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*4)
		for _, sale := range sales[start:end] {
			if sale == nil || sale.Product == "" || sale.Date.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?)")
			args = append(args, sale.Date, sale.Product, sale.Quantity, sale.UnitPrice)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (date, product, quantity, unit_price) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

// FetchAll pulls the entire transaction history, oldest first. Training
// re-reads the full history on every cycle.
func (s *ClickHouseSalesStore) FetchAll(ctx context.Context) ([]*models.SaleRecord, error) {
	q := fmt.Sprintf("SELECT date, product, quantity, unit_price FROM %s ORDER BY date ASC", s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*models.SaleRecord
	for rows.Next() {
		var sale models.SaleRecord
		var date time.Time
		if err := rows.Scan(&date, &sale.Product, &sale.Quantity, &sale.UnitPrice); err != nil {
			return nil, err
		}
		sale.Date = date
		sales = append(sales, &sale)
	}
	return sales, rows.Err()
}

func (s *ClickHouseSalesStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseSalesStore) Close() error {
	return nil // Managed by pkg
}
