// Tourbuddy - Travel Destination Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tourbuddy

package importer

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// DuckDB driver - reads the destination CSV through read_csv_auto
	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/tourbuddy/internal/logging"
)

// DatasetRow is one destination row from the dataset CSV.
type DatasetRow struct {
	ID          string
	Name        string
	Description string
	Category    string
	City        string
	Rating      float64
	Lat         float64
	Lon         float64

	// Valid is false when lat or lon could not be parsed.
	Valid bool
}

// column lists the accepted header names for one logical field, in order of
// preference. DuckDB resolves identifiers case-insensitively.
type column struct {
	field    string
	aliases  []string
	required bool
}

var datasetColumns = []column{
	{field: "id", aliases: []string{"place_id", "destination_id", "id"}, required: true},
	{field: "name", aliases: []string{"place_name", "name"}, required: true},
	{field: "description", aliases: []string{"description"}},
	{field: "category", aliases: []string{"category"}},
	{field: "city", aliases: []string{"city"}},
	{field: "rating", aliases: []string{"rating"}},
	{field: "lat", aliases: []string{"lat", "latitude"}, required: true},
	{field: "lon", aliases: []string{"long", "lon", "lng", "longitude"}, required: true},
}

// DatasetReader reads destinations from a CSV file using an in-memory DuckDB.
type DatasetReader struct {
	db      *sql.DB
	path    string
	columns map[string]string
}

// NewDatasetReader loads the CSV at path into an in-memory DuckDB table and
// resolves its columns.
func NewDatasetReader(ctx context.Context, path string) (*DatasetReader, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	// read_csv_auto does not take bind parameters for its path argument.
	load := fmt.Sprintf("CREATE TABLE dataset AS SELECT * FROM read_csv_auto(%s, header = true, all_varchar = true)",
		quoteLiteral(path))
	if _, err := db.ExecContext(ctx, load); err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	columns, err := resolveColumns(ctx, db)
	if err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, err
	}

	return &DatasetReader{db: db, path: path, columns: columns}, nil
}

// resolveColumns maps each logical field to the first alias present in the table.
func resolveColumns(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT lower(column_name) FROM information_schema.columns WHERE table_name = 'dataset'")
	if err != nil {
		return nil, fmt.Errorf("list dataset columns: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column name: %w", err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list dataset columns: %w", err)
	}

	resolved := make(map[string]string, len(datasetColumns))
	for _, c := range datasetColumns {
		for _, alias := range c.aliases {
			if present[alias] {
				resolved[c.field] = alias
				break
			}
		}
		if _, ok := resolved[c.field]; !ok && c.required {
			return nil, fmt.Errorf("dataset is missing a %s column (accepted: %s)", c.field, strings.Join(c.aliases, ", "))
		}
	}
	return resolved, nil
}

// text returns a VARCHAR expression for field, or '' when the column is absent.
func (r *DatasetReader) text(field string) string {
	if col, ok := r.columns[field]; ok {
		return fmt.Sprintf("coalesce(trim(%s), '')", quoteIdent(col))
	}
	return "''"
}

// number returns a nullable DOUBLE expression for field.
func (r *DatasetReader) number(field string) string {
	if col, ok := r.columns[field]; ok {
		return fmt.Sprintf("TRY_CAST(%s AS DOUBLE)", quoteIdent(col))
	}
	return "NULL"
}

// Count returns the number of rows in the dataset.
func (r *DatasetReader) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM dataset").Scan(&n); err != nil {
		return 0, fmt.Errorf("count dataset rows: %w", err)
	}
	return n, nil
}

// ReadAll returns every row with a non-empty id, ordered by id.
func (r *DatasetReader) ReadAll(ctx context.Context) ([]DatasetRow, error) {
	query := fmt.Sprintf(`
		SELECT
			%s AS id,
			%s AS name,
			%s AS description,
			%s AS category,
			%s AS city,
			%s AS rating,
			%s AS lat,
			%s AS lon
		FROM dataset
		WHERE %s <> ''
		ORDER BY TRY_CAST(%s AS BIGINT) NULLS LAST, %s`,
		r.text("id"), r.text("name"), r.text("description"), r.text("category"), r.text("city"),
		r.number("rating"), r.number("lat"), r.number("lon"),
		r.text("id"), r.text("id"), r.text("id"),
	)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query dataset: %w", err)
	}
	defer rows.Close()

	var out []DatasetRow
	for rows.Next() {
		var row DatasetRow
		var rating, lat, lon sql.NullFloat64
		if err := rows.Scan(&row.ID, &row.Name, &row.Description, &row.Category, &row.City, &rating, &lat, &lon); err != nil {
			return nil, fmt.Errorf("scan dataset row: %w", err)
		}
		row.Rating = rating.Float64
		row.Lat, row.Lon = lat.Float64, lon.Float64
		row.Valid = lat.Valid && lon.Valid
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dataset rows: %w", err)
	}

	logging.Debug().Str("path", r.path).Int("rows", len(out)).Msg("Read destination dataset")
	return out, nil
}

// Close closes the DuckDB connection.
func (r *DatasetReader) Close() error {
	return r.db.Close()
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
