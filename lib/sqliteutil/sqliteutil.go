package sqliteutil

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// OpenDB opens the database at `target` and applies `schema` to it.
// `target` may be a plain file path, `:memory:`, or a `libsql://` url.
func OpenDB(schema, target string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	if strings.HasPrefix(target, "libsql://") {
		db, err = sql.Open("libsql", target)
	} else {
		db, err = sql.Open("sqlite", fmt.Sprintf("file:%s", target))
	}
	if err != nil {
		return nil, err
	}

	// sqlite only supports one writer at a time, pooling extra
	// connections just produces SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		db.Close()
		return nil, err
	}
	return db, nil
}
