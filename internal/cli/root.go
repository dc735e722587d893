package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/daystreak/internal/achievements"
	"github.com/julianstephens/daystreak/internal/backup"
	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/logger"
	"github.com/julianstephens/daystreak/internal/storage"
	"github.com/julianstephens/daystreak/internal/storage/sqlite"
)

// Context is shared by every command.
type Context struct {
	Store    storage.Provider
	User     string
	Timezone string
	Rules    []achievements.Rule
	Now      func() time.Time
	Out      io.Writer
	In       io.Reader
}

// Clock returns the context's wall clock.
func (c *Context) Clock() func() time.Time {
	if c.Now == nil {
		return time.Now
	}
	return c.Now
}

// Writer returns the command output stream.
func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Reader returns the command input stream.
func (c *Context) Reader() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

// Printf writes formatted command output.
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Writer(), format, args...)
}

// Today returns the current day in the configured timezone.
func (c *Context) Today() (calendar.DayKey, error) {
	return calendar.NewNormalizer(c.Clock()).Today(c.Timezone)
}

// ParseDay parses a YYYY-MM-DD flag value; empty or "today" means today.
func (c *Context) ParseDay(s string) (calendar.DayKey, error) {
	switch s {
	case "", "today":
		return c.Today()
	case "yesterday":
		today, err := c.Today()
		if err != nil {
			return "", err
		}
		return today.AddDays(-1), nil
	}
	return calendar.ParseDayKey(s)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}
