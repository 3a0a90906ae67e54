// Package database handles roster database connections and schema inspection.
//
// It provides a wrapper around GORM to configure postgres, MySQL or sqlite
// connections based on the application's configuration. Postgres is the
// production roster store; sqlite backs the in-memory test databases.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let callers verify, before a run starts,
// that the tables they query expose the columns they filter on.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//
//	missing, err := database.MissingColumns(db, "teacher", "user_id", "deleted_at")
package database
