package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turtacn/DiagBench/pkg/errors"
)

func TestBuildDSN(t *testing.T) {
	dsn := BuildDSN(PostgresConfig{Host: "db", Port: 5433, Database: "diagbench", Username: "u", Password: "p@ss"})
	assert.Equal(t, "postgres://u:p%40ss@db:5433/diagbench?sslmode=disable", dsn)

	dsn = BuildDSN(PostgresConfig{Host: "::1", Port: 5432, Database: "d", SSLMode: "require"})
	assert.Equal(t, "postgres://[::1]:5432/d?sslmode=require", dsn)
}

func TestNewConnection_PingFails(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(errors.New("refused"))
	mock.ExpectClose()

	orig := sqlOpen
	defer func() { sqlOpen = orig }()
	var gotDriver string
	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		gotDriver = driver
		return db, nil
	}

	conn, err := NewConnection(context.Background(), PostgresConfig{Host: "h", Port: 1, Database: "d"}, nil)
	assert.Nil(t, conn)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDatabaseError))
	assert.Equal(t, "pgx", gotDriver)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnection_HealthCheckAndClose(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()
	mock.ExpectClose()

	conn := NewConnectionWithDB(db, nil)
	assert.NoError(t, conn.HealthCheck(context.Background()))
	assert.NoError(t, conn.Close())
	assert.NoError(t, conn.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRollbackMigration_RejectsNonPositiveSteps(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = NewConnectionWithDB(db, nil).RollbackMigration(0)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := migrationFS.ReadDir("migrations")
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_create_validation_history.up.sql")
	assert.Contains(t, names, "000001_create_validation_history.down.sql")
}

//Personal.AI order the ending
