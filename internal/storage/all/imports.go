// Package all wires all built-in storage backends into the storage factory.
//
// Importing it (as a blank import) runs the init functions of each backend,
// which register their factories and DDL builders:
//
//   - "postgres" (internal/storage/postgres)
//   - "mssql"    (internal/storage/mssql)
//   - "sqlite"   (internal/storage/sqlite)
//
// Typical usage in cmd/energyetl:
//
//	import _ "github.com/iNicoNavarro/data-problems/internal/storage/all"
//
//	repo, err := storage.New(ctx, storage.Config{Kind: cfg.Offers.DBKind, DSN: cfg.Offers.DSN, ...})
package all

import (
	_ "github.com/iNicoNavarro/data-problems/internal/storage/mssql"
	_ "github.com/iNicoNavarro/data-problems/internal/storage/postgres"
	_ "github.com/iNicoNavarro/data-problems/internal/storage/sqlite"
)
