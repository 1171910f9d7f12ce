package database

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// SQLiteDriverName is the database/sql driver used for SQLite connections. It
// is go-sqlite3 with extra SQL functions registered on every connection.
const SQLiteDriverName = "sqlite3_linksphere"

// UnicodeLowerFunc lowercases its argument with full Unicode case mapping.
// SQLite's own LOWER only folds ASCII.
const UnicodeLowerFunc = "unicode_lower"

func init() {
	sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(UnicodeLowerFunc, strings.ToLower, true)
		},
	})
}
