package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	// Setup In-Memory DB
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE teacher (id INTEGER PRIMARY KEY, user_id TEXT, deleted_at DATETIME)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "teacher")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["user_id"])
	assert.Equal(t, "datetime", colMap["deleted_at"])

	// PRAGMA table_info returns empty result for non-existent table
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	require.NoError(t, db.Exec("CREATE TABLE student (id INTEGER PRIMARY KEY, user_id TEXT)").Error)

	missing, err := MissingColumns(db, "student", "user_id", "deleted_at")
	assert.NoError(t, err)
	assert.Equal(t, []string{"deleted_at"}, missing)

	missing, err = MissingColumns(db, "district_admin", "user_id", "deleted_at")
	assert.NoError(t, err)
	assert.Equal(t, []string{"user_id", "deleted_at"}, missing)
}
