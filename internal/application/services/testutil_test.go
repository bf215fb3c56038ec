package services

import (
	"database/sql"
	"log/slog"
	"strings"
	"testing"

	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/performance"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/database"
	"github.com/stretchr/testify/require"
)

// newTestDB opens a private in-memory sqlite database with the full schema
// applied. cache=shared keeps the database alive across the pool's
// connections; capping the pool at one connection avoids lock contention.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	raw, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { raw.Close() })

	require.NoError(t, database.NewTableCreator().CreateSchema(raw))
	return &database.DB{DB: raw}
}

// newTestLogger builds a logger that only surfaces errors, keeping test
// output readable.
func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   map[logging.Channel]slog.Level{},
	})
	require.NoError(t, err)
	return logger
}

func newTestTracker() *performance.Tracker {
	return performance.NewTracker(performance.DefaultTrackerConfig())
}

func countRows(t *testing.T, db *database.DB, table, visitorID string) int {
	t.Helper()

	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE visitor_id = ?", visitorID).Scan(&n)
	require.NoError(t, err)
	return n
}
