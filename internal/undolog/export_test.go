package undolog

import "database/sql"

// SQLiteDB exposes the underlying connection to external tests.
func SQLiteDB(s *SQLiteStore) *sql.DB { return s.db }
