package workflows

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/PolarWolf314/enject/internal/audit"
	kerrors "github.com/PolarWolf314/enject/internal/errors"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	StoreOptions

	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// User filters entries by username.
	User string

	// Operations filters entries by operation types (comma-separated).
	Operations string

	// Since filters entries after this date (YYYY-MM-DD format).
	Since string

	// Until filters entries before this date (YYYY-MM-DD format).
	Until string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered audit log entries.
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// Log reads and filters a store's audit log. No password is needed because
// the log never contains secret values.
//
// Returns ErrStoreNotInitialized if the store has no config.
// Returns ErrInvalidDateFormat if the date format is invalid.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	settings, err := opts.settings()
	if err != nil {
		return nil, err
	}

	if _, err := loadStore(settings); err != nil {
		return nil, err
	}

	filter, err := newEntryFilter(opts)
	if err != nil {
		return nil, err
	}

	entries, err := audit.ReadEntries(settings.AuditPath())
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	kept := make([]audit.Entry, 0, len(entries))
	for _, e := range entries {
		if filter.match(e) {
			kept = append(kept, e)
		}
	}

	// Limit always keeps the most recent entries.
	if opts.Limit > 0 && len(kept) > opts.Limit {
		kept = kept[len(kept)-opts.Limit:]
	}
	if opts.Reverse {
		slices.Reverse(kept)
	}

	return &LogResult{
		Entries:                  kept,
		TotalEntriesBeforeFilter: len(entries),
	}, nil
}

// entryFilter is the compiled form of the LogOptions filters. Zero fields match everything.
type entryFilter struct {
	user  string
	ops   map[string]bool
	since time.Time
	until time.Time
}

func newEntryFilter(opts LogOptions) (*entryFilter, error) {
	f := &entryFilter{user: opts.User}

	if opts.Operations != "" {
		f.ops = make(map[string]bool)
		for _, op := range strings.Split(opts.Operations, ",") {
			if op = strings.TrimSpace(op); op != "" {
				f.ops[strings.ToLower(op)] = true
			}
		}
	}

	var err error
	if f.since, err = parseLogDate("--since", opts.Since); err != nil {
		return nil, err
	}
	if f.until, err = parseLogDate("--until", opts.Until); err != nil {
		return nil, err
	}
	if !f.until.IsZero() {
		// --until names a whole day.
		f.until = f.until.Add(24*time.Hour - time.Nanosecond)
	}
	return f, nil
}

func parseLogDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s expects YYYY-MM-DD, got %q", kerrors.ErrInvalidDateFormat, flag, value)
	}
	return t, nil
}

func (f *entryFilter) match(e audit.Entry) bool {
	if f.user != "" && !strings.EqualFold(e.User, f.user) {
		return false
	}
	if f.ops != nil && !f.ops[strings.ToLower(e.Operation)] {
		return false
	}
	if f.since.IsZero() && f.until.IsZero() {
		return true
	}

	// Entries whose time cannot be read never match a date filter.
	t, err := audit.ParseTimestamp(e.Timestamp)
	if err != nil {
		return false
	}
	if !f.since.IsZero() && t.Before(f.since) {
		return false
	}
	if !f.until.IsZero() && t.After(f.until) {
		return false
	}
	return true
}
