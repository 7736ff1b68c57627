package store

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/klougaris/smartclinic/pkg/database"
	"github.com/klougaris/smartclinic/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New("debug")
}

func setupStoreTest(t *testing.T) (*database.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := database.Wrap(sqlDB, testLogger())

	cleanup := func() {
		sqlDB.Close()
	}
	return db, mock, cleanup
}
