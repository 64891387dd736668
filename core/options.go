package core

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shrek82/jlite/logger"
)

// MemoryTarget is the target name SQLite reserves for private in-memory databases.
const MemoryTarget = ":memory:"

// Options defines the configuration of a Connection.
type Options struct {
	// Logger receives connection events and statement executions.
	// Nil selects a stdout logger at warn level.
	Logger logger.Logger
	// SlowThreshold logs executions taking longer than this at warn level. Zero disables it.
	SlowThreshold time.Duration
	// BusyTimeout is how long the engine waits on a locked database before failing.
	BusyTimeout time.Duration
	// ForeignKeys turns on foreign key enforcement for the session.
	ForeignKeys bool
	// JournalMode sets the journal mode, e.g. "WAL" or "MEMORY". Empty keeps the engine default.
	JournalMode string
}

var defaultLogger = func() logger.Logger {
	l := logger.NewStdLogger()
	l.SetLevel(logger.LogLevelWarn)
	return l
}()

var journalModes = []string{"DELETE", "TRUNCATE", "PERSIST", "MEMORY", "WAL", "OFF"}

func (o *Options) log() logger.Logger {
	if o == nil || o.Logger == nil {
		return defaultLogger
	}
	return o.Logger
}

// pragmas returns the statements that configure a fresh session.
func (o *Options) pragmas() ([]string, error) {
	if o == nil {
		return nil, nil
	}
	var list []string
	if o.ForeignKeys {
		list = append(list, "pragma foreign_keys = on")
	}
	if o.JournalMode != "" {
		mode := strings.ToUpper(o.JournalMode)
		if !slices.Contains(journalModes, mode) {
			return nil, fmt.Errorf("unknown journal mode %q", o.JournalMode)
		}
		list = append(list, "pragma journal_mode = "+mode)
	}
	return list, nil
}

