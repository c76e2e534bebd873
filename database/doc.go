// Package database connects the share catalog to a SQL backend.
//
// The package supports PostgreSQL and SQLite and handles connection
// management, migrations, and schema validation.
//
// # Usage
//
//	db, err := database.Open(ctx, database.Config{
//	    Type:   "sqlite",
//	    DSN:    "lanshare.db",
//	    Tables: lanshare.Tables{Shares: "lanshare_shares"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	catalog, err := lanshare.NewCatalog(db.GetRepo(), registry, logger)
//
// # Subpackages
//
//   - database/postgres: PostgreSQL implementation using pgx
//   - database/sqlite: SQLite implementation using modernc.org/sqlite
package database
