package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBConfig_DSN(t *testing.T) {
	config := &DBConfig{Host: "db", Port: "5433", User: "app", Password: "secret", Name: "coursebank", SSLMode: "require"}

	assert.Equal(t, "host=db port=5433 user=app password=secret dbname=coursebank sslmode=require", config.DSN())
}

func TestMigrate(t *testing.T) {
	t.Run("applies schema", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		assert.NoError(t, Migrate(context.Background(), db))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("permission denied"))
		mock.ExpectRollback()

		err = Migrate(context.Background(), db)
		assert.ErrorContains(t, err, "apply schema")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSchemaGuardsLedger(t *testing.T) {
	assert.Contains(t, schema, "CHECK (balance >= 0)")
	assert.Contains(t, schema, "enrollments_active_student_course")
	assert.Contains(t, schema, "BEFORE UPDATE OR DELETE ON ledger_entries")
}
