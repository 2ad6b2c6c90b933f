package testsupport

import (
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var dbCounter atomic.Uint64

// NewSQLiteMemoryDB opens a named shared-cache in-memory database. Distinct
// names never see each other's tables.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(strings.TrimSpace(name))
	if name == "" {
		name = "memdb"
	}
	sqldb, err := sql.Open("sqlite3", fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_fk=1", name, dbCounter.Add(1)))
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(1)
	return sqldb, nil
}

// NewBunDB returns a bun database over a fresh in-memory SQLite database that
// is closed when the test ends.
func NewBunDB(tb testing.TB) *bun.DB {
	tb.Helper()
	sqldb, err := NewSQLiteMemoryDB(tb.Name())
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	tb.Cleanup(func() { _ = db.Close() })
	return db
}
