package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tasklive/backend/internal/infrastructure/config"
)

func TestDialectFor(t *testing.T) {
	assert.Equal(t, config.DriverMySQL, DialectFor(config.DriverMySQL).Name)
	assert.Equal(t, config.DriverSQLite, DialectFor(config.DriverSQLite).Name)
	assert.Equal(t, config.DriverSQLite, DialectFor("").Name)
}

func TestOpenDB_UnsupportedDriver(t *testing.T) {
	_, err := OpenDB(&config.DatabaseConfig{Driver: "postgres"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestOpenDB_InvalidMySQLDSN(t *testing.T) {
	_, err := OpenDB(&config.DatabaseConfig{Driver: config.DriverMySQL, DSN: "not a dsn"})
	assert.ErrorContains(t, err, "failed to parse mysql dsn")
}
