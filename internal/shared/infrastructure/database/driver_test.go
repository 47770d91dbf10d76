package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDriver(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Driver
	}{
		{"empty defaults to sqlite", "", DriverSQLite},
		{"postgres scheme", "postgres://hr:hr@localhost:5432/joinflow", DriverPostgres},
		{"postgresql scheme", "postgresql://hr:hr@localhost/joinflow", DriverPostgres},
		{"sqlite scheme", "sqlite:///tmp/data.db", DriverSQLite},
		{"file prefix", "file:/tmp/data.db", DriverSQLite},
		{"db suffix", "/var/lib/joinflow/data.db", DriverSQLite},
		{"sqlite3 suffix", "data.sqlite3", DriverSQLite},
		{"unknown defaults to postgres", "mysql://whatever", DriverPostgres},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDriver(tt.url))
		})
	}
}

func TestDriverIsValid(t *testing.T) {
	assert.True(t, DriverPostgres.IsValid())
	assert.True(t, DriverSQLite.IsValid())
	assert.False(t, Driver("oracle").IsValid())
}
