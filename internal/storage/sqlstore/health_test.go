package sqlstore

import (
	"database/sql"
	"testing"
)

func TestLoadMessage(t *testing.T) {
	tests := []struct {
		name  string
		stats sql.DBStats
		want  string
	}{
		{"idle pool", sql.DBStats{MaxOpenConnections: 25, OpenConnections: 3, InUse: 1}, ""},
		{"unlimited pool", sql.DBStats{OpenConnections: 60, InUse: 60}, ""},
		{"postgres pool exhausted", sql.DBStats{MaxOpenConnections: 25, OpenConnections: 25, InUse: 25}, "The database is experiencing heavy load."},
		{"sqlite writer busy", sql.DBStats{MaxOpenConnections: 1, OpenConnections: 1, InUse: 1}, "The database is experiencing heavy load."},
		{"many waits", sql.DBStats{MaxOpenConnections: 25, InUse: 25, WaitCount: 1001}, "The database has a high number of wait events, indicating potential bottlenecks."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loadMessage(tt.stats); got != tt.want {
				t.Errorf("loadMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
