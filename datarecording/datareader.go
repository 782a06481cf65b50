package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
)

// QueryParams narrows down a query.
type QueryParams struct {
	// Where is the condition without the WHERE keyword, for example
	// "tick > ? AND producer = ?".
	Where string

	// Args fills the placeholders of Where.
	Args []any

	// Limit caps the number of results. Zero means no limit.
	Limit int

	// Offset skips results. It only applies with a Limit.
	Offset int

	// OrderBy is the sort order without the ORDER BY keywords.
	OrderBy string
}

// DataReader reads back the tables written by a DataRecorder.
type DataReader interface {
	// MapTable tells which struct the rows of a table are read into.
	MapTable(tableName string, sampleEntry any)

	// ListTables returns the mapped tables in alphabetical order.
	ListTables() []string

	// Query returns pointers to structs of the mapped type and the number
	// of rows matching the condition, ignoring Limit and Offset.
	Query(ctx context.Context, tableName string, params QueryParams) (
		results []any,
		totalCount int,
		err error,
	)

	Close() error
}

type sqliteReader struct {
	*sql.DB

	typeMap map[string]reflect.Type
}

// NewReader opens a recorded database.
func NewReader(filename string) (DataReader, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("datarecording: opening %s: %w", filename, err)
	}

	return NewReaderWithDB(db), nil
}

// NewReaderWithDB creates a reader on an open database.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{
		DB:      db,
		typeMap: make(map[string]reflect.Type),
	}
}

func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	if err := checkStructFields(sampleEntry); err != nil {
		panic(err)
	}

	r.typeMap[tableName] = reflect.TypeOf(sampleEntry)
}

func (r *sqliteReader) ListTables() []string {
	return sortedKeys(r.typeMap)
}

func (r *sqliteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, int, error) {
	structType, ok := r.typeMap[tableName]
	if !ok {
		return nil, 0, fmt.Errorf("datarecording: table %s is not mapped", tableName)
	}

	totalCount, err := r.count(ctx, tableName, params)
	if err != nil {
		return nil, 0, err
	}

	var query strings.Builder
	query.WriteString("SELECT * FROM " + tableName)

	if params.Where != "" {
		query.WriteString(" WHERE " + params.Where)
	}

	if params.OrderBy != "" {
		query.WriteString(" ORDER BY " + params.OrderBy)
	}

	if params.Limit > 0 {
		fmt.Fprintf(&query, " LIMIT %d", params.Limit)

		if params.Offset > 0 {
			fmt.Fprintf(&query, " OFFSET %d", params.Offset)
		}
	}

	rows, err := r.QueryContext(ctx, query.String(), params.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("datarecording: querying %s: %w", tableName, err)
	}
	defer rows.Close()

	results, err := scanRows(rows, structType)
	if err != nil {
		return nil, 0, fmt.Errorf("datarecording: reading %s: %w", tableName, err)
	}

	return results, totalCount, nil
}

func (r *sqliteReader) count(
	ctx context.Context,
	tableName string,
	params QueryParams,
) (int, error) {
	query := "SELECT COUNT(*) FROM " + tableName
	if params.Where != "" {
		query += " WHERE " + params.Where
	}

	var n int
	if err := r.QueryRowContext(ctx, query, params.Args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("datarecording: counting %s: %w", tableName, err)
	}

	return n, nil
}

func (r *sqliteReader) Close() error {
	return r.DB.Close()
}

func columnIndex(structType reflect.Type) map[string]int {
	index := make(map[string]int)
	for _, c := range columnsOf(structType) {
		index[c.name] = c.field
	}

	return index
}

func scanRows(rows *sql.Rows, structType reflect.Type) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	fieldIndex := columnIndex(structType)

	var results []any

	for rows.Next() {
		ptr := reflect.New(structType)
		val := ptr.Elem()
		targets := make([]any, len(columns))

		for i, col := range columns {
			if idx, ok := fieldIndex[col]; ok {
				targets[i] = val.Field(idx).Addr().Interface()
				continue
			}

			var discard any
			targets[i] = &discard
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		results = append(results, ptr.Interface())
	}

	return results, rows.Err()
}
