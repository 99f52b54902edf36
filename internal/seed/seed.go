package seed

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/cytora/melp-api/internal/config"
	"github.com/cytora/melp-api/internal/logging"
	"github.com/cytora/melp-api/internal/restaurant"
	"github.com/cytora/melp-api/internal/storage/pg"
)

const table = "restaurants"

var (
	ErrSeed          = errors.New("seed error")
	ErrMissingColumn = fmt.Errorf("%w missing column", ErrSeed)
	ErrInvalidRow    = fmt.Errorf("%w invalid row", ErrSeed)
)

// Open connects to the same database the service uses, through database/sql.
func Open(ctx context.Context, conf *config.Config) (*sql.DB, error) {
	connString, err := pg.ConnString(conf)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Parse reads restaurants from a CSV file with a header row naming every
// restaurants column. Empty cells are loaded as null.
func Parse(r io.Reader) ([]*restaurant.Restaurant, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrSeed, err)
	}
	index := map[string]int{}
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, col := range pg.Columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, col)
		}
	}

	var out []*restaurant.Restaurant
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w at line %d: %v", ErrInvalidRow, line, err)
		}
		cell := func(col string) *string {
			v := strings.TrimSpace(record[index[col]])
			if v == "" {
				return nil
			}
			return &v
		}
		rest, err := row(cell)
		if err != nil {
			return nil, fmt.Errorf("%w at line %d: %v", ErrInvalidRow, line, err)
		}
		out = append(out, rest)
	}
}

func row(cell func(col string) *string) (*restaurant.Restaurant, error) {
	id := cell("id")
	if id == nil {
		return nil, errors.New("empty id")
	}
	rest := &restaurant.Restaurant{
		ID:     *id,
		Name:   cell("name"),
		Site:   cell("site"),
		Email:  cell("email"),
		Phone:  cell("phone"),
		Street: cell("street"),
		City:   cell("city"),
		State:  cell("state"),
	}
	if v := cell("rating"); v != nil {
		rating, err := strconv.Atoi(*v)
		if err != nil {
			return nil, fmt.Errorf("rating: %w", err)
		}
		rest.Rating = &rating
	}
	var err error
	if rest.Lat, err = float(cell("lat")); err != nil {
		return nil, fmt.Errorf("lat: %w", err)
	}
	if rest.Lng, err = float(cell("lng")); err != nil {
		return nil, fmt.Errorf("lng: %w", err)
	}
	return rest, nil
}

func float(v *string) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	f, err := strconv.ParseFloat(*v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Load creates the restaurants table when missing and copies rows into it in a
// single transaction. A table that already holds data is left untouched and
// Load reports zero rows written.
func Load(ctx context.Context, db *sql.DB, rows []*restaurant.Restaurant) (int, error) {
	if _, err := db.ExecContext(ctx, pg.CreateTableQuery); err != nil {
		return 0, fmt.Errorf("%w: creating table: %v", ErrSeed, err)
	}
	var count int
	if err := db.QueryRowContext(ctx, pg.CountQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting rows: %v", ErrSeed, err)
	}
	if count > 0 {
		logging.Info(ctx, logging.Data{"rows": count}, "table already populated, skipping seed")
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(table, pg.Columns...))
	if err != nil {
		return 0, fmt.Errorf("%w: preparing copy: %v", ErrSeed, err)
	}
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, values(r)...); err != nil {
			_ = stmt.Close()
			return 0, fmt.Errorf("%w: copying %s: %v", ErrSeed, r.ID, err)
		}
	}
	// flush
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return 0, fmt.Errorf("%w: flushing copy: %v", ErrSeed, err)
	}
	if err := stmt.Close(); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	logging.Info(ctx, logging.Data{"rows": len(rows)}, "restaurants seeded")
	return len(rows), nil
}

// values returns r in pg.Columns order. Nil pointers are written as null.
func values(r *restaurant.Restaurant) []interface{} {
	return []interface{}{r.ID, r.Rating, r.Name, r.Site, r.Email, r.Phone, r.Street, r.City, r.State, r.Lat, r.Lng}
}
