// Package datarecording stores simulation records in SQLite tables whose
// columns follow the fields of a Go struct.
package datarecording

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// ErrInvalidEntry is returned when a record type cannot be stored.
var ErrInvalidEntry = errors.New("datarecording: entry must be a flat struct")

// DataRecorder buffers records and writes them into tables.
type DataRecorder interface {
	// CreateTable creates a table whose columns are the fields of
	// sampleEntry. Creating an existing table is a no-op.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers an entry for a table created before.
	InsertData(tableName string, entry any)

	// ListTables returns the names of the created tables in order.
	ListTables() []string

	// Flush writes all buffered entries.
	Flush()

	// Close flushes and closes the database.
	Close() error
}

const defaultBatchSize = 10000

// New creates a recorder that writes into a new SQLite file. An empty path
// generates a unique file name. The buffered entries are flushed when the
// program exits through atexit.
func New(path string) (DataRecorder, error) {
	if path == "" {
		path = "blockgen_" + xid.New().String()
	}

	filename := path
	if !strings.HasSuffix(filename, ".sqlite3") {
		filename += ".sqlite3"
	}

	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("datarecording: file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("datarecording: opening %s: %w", filename, err)
	}

	w := newWriter(db)
	w.filename = filename

	atexit.Register(func() { w.Flush() })

	return w, nil
}

// NewWithDB creates a recorder on an open database.
func NewWithDB(db *sql.DB) DataRecorder {
	return newWriter(db)
}

func newWriter(db *sql.DB) *sqliteWriter {
	return &sqliteWriter{
		DB:        db,
		batchSize: defaultBatchSize,
		tables:    make(map[string]*table),
	}
}

type table struct {
	structType reflect.Type
	entries    []any
}

type sqliteWriter struct {
	*sql.DB

	mu         sync.Mutex
	filename   string
	tables     map[string]*table
	tableOrder []string
	batchSize  int
	entryCount int
}

func isAllowedKind(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func checkStructFields(entry any) error {
	t := reflect.TypeOf(entry)
	if t == nil || t.Kind() != reflect.Struct {
		return ErrInvalidEntry
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !isAllowedKind(field.Type.Kind()) {
			return fmt.Errorf("%w: field %s is a %s",
				ErrInvalidEntry, field.Name, field.Type.Kind())
		}

		// Values would drop or expand such fields and no longer line up
		// with the columns.
		_, opts, _ := strings.Cut(field.Tag.Get("structs"), ",")
		for _, opt := range strings.Split(opts, ",") {
			if opt == "omitempty" || opt == "flatten" {
				return fmt.Errorf("%w: field %s uses structs option %s",
					ErrInvalidEntry, field.Name, opt)
			}
		}
	}

	return nil
}

func (w *sqliteWriter) CreateTable(tableName string, sampleEntry any) {
	if err := checkStructFields(sampleEntry); err != nil {
		panic(err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.tables[tableName]; exists {
		return
	}

	columns := strings.Join(columnNames(reflect.TypeOf(sampleEntry)), ", \n\t")
	w.mustExecute(`CREATE TABLE IF NOT EXISTS ` + tableName +
		` (` + "\n\t" + columns + "\n" + `);`)

	w.tables[tableName] = &table{structType: reflect.TypeOf(sampleEntry)}
	w.tableOrder = append(w.tableOrder, tableName)
}

func (w *sqliteWriter) InsertData(tableName string, entry any) {
	w.mu.Lock()
	defer w.mu.Unlock()

	t, exists := w.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != t.structType {
		panic(fmt.Sprintf("table %s stores %s, got %T",
			tableName, t.structType, entry))
	}

	t.entries = append(t.entries, entry)

	w.entryCount++
	if w.entryCount >= w.batchSize {
		w.flush()
	}
}

func (w *sqliteWriter) ListTables() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return append([]string(nil), w.tableOrder...)
}

func (w *sqliteWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.flush()
}

func (w *sqliteWriter) flush() {
	if w.entryCount == 0 {
		return
	}

	tx, err := w.Begin()
	if err != nil {
		panic(err)
	}

	for _, tableName := range w.tableOrder {
		t := w.tables[tableName]
		if len(t.entries) == 0 {
			continue
		}

		stmt, err := tx.Prepare(insertStatement(tableName, t.entries[0]))
		if err != nil {
			panic(err)
		}

		for _, entry := range t.entries {
			if _, err := stmt.Exec(structs.Values(entry)...); err != nil {
				panic(err)
			}
		}

		stmt.Close()
		t.entries = nil
	}

	if err := tx.Commit(); err != nil {
		panic(err)
	}

	w.entryCount = 0
}

func (w *sqliteWriter) Close() error {
	w.Flush()
	return w.DB.Close()
}

func (w *sqliteWriter) mustExecute(query string) sql.Result {
	res, err := w.Exec(query)
	if err != nil {
		panic(fmt.Errorf("failed to execute %q: %w", query, err))
	}

	return res
}

// column is a stored field. The name comes from the structs tag, or the field
// name when there is none. Fields tagged "-" and unexported fields are not
// stored, matching what structs.Values returns.
type column struct {
	name  string
	field int
}

func columnsOf(structType reflect.Type) []column {
	var columns []column

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}

		name, _, _ := strings.Cut(field.Tag.Get("structs"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = field.Name
		}

		columns = append(columns, column{name: name, field: i})
	}

	return columns
}

func columnNames(structType reflect.Type) []string {
	columns := columnsOf(structType)
	names := make([]string, len(columns))

	for i, c := range columns {
		names[i] = c.name
	}

	return names
}

func insertStatement(tableName string, entry any) string {
	n := len(columnsOf(reflect.TypeOf(entry)))
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", n), ", ")

	return "INSERT INTO " + tableName + " VALUES (" + placeholders + ")"
}

// Filename returns the database file of a recorder created by New, or an
// empty string.
func Filename(r DataRecorder) string {
	if w, ok := r.(*sqliteWriter); ok {
		return w.filename
	}

	return ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
