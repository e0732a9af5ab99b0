package audit

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/PolarWolf314/enject/internal/utils"
)

// TimestampFormat is the layout of Entry.Timestamp.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Operation names recorded in the log.
const (
	OpInit    = "init"
	OpSet     = "set"
	OpDelete  = "delete"
	OpImport  = "import"
	OpRun     = "run"
	OpRotate  = "rotate"
	OpMigrate = "migrate"
)

// Entry represents a single audit log entry. Entries name secrets but never
// carry their values.
type Entry struct {
	Timestamp string `json:"ts"`             // RFC3339 with microseconds.
	User      string `json:"user"`           // Local username.
	Host      string `json:"host,omitempty"` // Hostname.
	Operation string `json:"op"`             // Operation name.
	StoreID   string `json:"store_id,omitempty"`
	Global    bool   `json:"global,omitempty"` // True for the global store.

	// Optional fields depending on operation.
	Keys     []string `json:"keys,omitempty"`      // For set/delete/import.
	Count    int      `json:"count,omitempty"`     // For import/run/migrate.
	File     string   `json:"file,omitempty"`      // For import/run/migrate.
	Program  string   `json:"program,omitempty"`   // For run; argv[0] only.
	ExitCode int      `json:"exit_code,omitempty"` // For run.
}

// Log appends an entry to the audit log at logPath.
// Audit logging is best-effort: failures are ignored so that an operation
// never fails just because it could not be recorded. Nothing is written when
// the log's directory does not exist.
func Log(logPath string, entry Entry) {
	if logPath == "" {
		return
	}

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}

	if _, err := os.Stat(filepath.Dir(logPath)); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// LogWithUser returns an entry for op with the local user and host filled in.
func LogWithUser(op string) Entry {
	entry := Entry{Operation: op}

	if user, err := utils.GetUsername(); err == nil {
		entry.User = user
	}
	if host, err := utils.GetHostname(); err == nil {
		entry.Host = host
	}

	return entry
}

// ReadEntries reads all entries from the audit log at logPath.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(logPath string) ([]Entry, error) {
	data, err := os.ReadFile(logPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// ParseTimestamp parses an entry timestamp, accepting plain RFC3339 as well.
func ParseTimestamp(ts string) (time.Time, error) {
	t, err := time.Parse(TimestampFormat, ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
	}
	return t, err
}
