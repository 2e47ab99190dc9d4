package database

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
)

const sqliteDriverName = "sqlite3_unicode"

// sqlite's built-in lower() folds ASCII only; title search relies on full Unicode folding.
func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", unicodeLower, true)
		},
	})
}

func unicodeLower(v any) any {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		if s == nil { // NULL
			return nil
		}
		return strings.ToLower(string(s))
	}
	return v
}
