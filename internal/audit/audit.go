// Package audit provides the append-only record of every authorization
// decision and executed action. Entries are line-delimited JSON, written
// under a single lock so ordering matches occurrence, and details pass
// through redaction so the log never holds raw secret values.
package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/opsguard/sentinel/internal/redact"
)

// maxDetailRunes caps the detail field to keep a hostile caller from
// flooding the log with a single entry.
const maxDetailRunes = 200

// Event names recorded by the kernel.
const (
	EventUnauthorized    = "UNAUTHORIZED_ACCESS"
	EventRateLimited     = "RATE_LIMITED"
	EventAccessGranted   = "ACCESS_GRANTED"
	EventPathTraversal   = "PATH_TRAVERSAL_BLOCKED"
	EventSensitiveFile   = "SENSITIVE_FILE_BLOCKED"
	EventForbiddenCmd    = "FORBIDDEN_COMMAND"
	EventInjection       = "SHELL_INJECTION_BLOCKED"
	EventPromptThreat    = "PROMPT_THREAT"
	EventCommandExecuted = "COMMAND_EXECUTED"
	EventCommandFailed   = "COMMAND_FAILED"
)

// Entry is one audit record. Entries are write-once; nothing in the kernel
// mutates or deletes them after Record returns.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Identity  int64  `json:"identity"`
	Event     string `json:"event"`
	Detail    string `json:"detail,omitempty"`
}

// Log appends entries to a JSONL file.
type Log struct {
	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// Open creates or opens the audit log for appending. The file is created
// owner-only: the log records security decisions about a single operator.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	return &Log{file: f, now: time.Now}, nil
}

// Record appends one entry. The detail is redacted, newline-stripped, and
// truncated before it is written.
func (l *Log) Record(identity int64, event, detail string) error {
	entry := Entry{
		Timestamp: l.now().UTC().Format(time.RFC3339Nano),
		Identity:  identity,
		Event:     event,
		Detail:    cleanDetail(detail),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.file.Write(data)
	return err
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func cleanDetail(detail string) string {
	detail = redact.String(detail)
	detail = strings.ReplaceAll(detail, "\n", " ")
	detail = strings.ReplaceAll(detail, "\r", " ")
	if runes := []rune(detail); len(runes) > maxDetailRunes {
		detail = string(runes[:maxDetailRunes]) + "..."
	}
	return detail
}

// Tail reads the last n entries from a log file. Lines that fail to parse
// are skipped rather than aborting the read: a truncated final line must
// not make the whole history unreadable.
func Tail(path string, n int) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}
