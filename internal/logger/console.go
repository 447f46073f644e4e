package logger

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// ConsoleEntry is one captured log line.
type ConsoleEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Console is a fixed-size ring of recent log lines, fed by the JSON tee.
type Console struct {
	mu      sync.RWMutex
	entries []ConsoleEntry
	head    int
	count   int
}

func NewConsole(size int) *Console {
	if size <= 0 {
		size = defaultConsoleSize
	}
	return &Console{entries: make([]ConsoleEntry, size)}
}

// Write implements io.Writer. Each call carries one encoded zap entry.
func (c *Console) Write(p []byte) (int, error) {
	entry := parseEntry(p)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.head] = entry
	c.head = (c.head + 1) % len(c.entries)
	if c.count < len(c.entries) {
		c.count++
	}
	return len(p), nil
}

// Sync satisfies zapcore.WriteSyncer.
func (c *Console) Sync() error { return nil }

// Entries returns the captured lines, oldest first.
func (c *Console) Entries() []ConsoleEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]ConsoleEntry, c.count)
	start := 0
	if c.count == len(c.entries) {
		start = c.head
	}
	for i := 0; i < c.count; i++ {
		out[i] = c.entries[(start+i)%len(c.entries)]
	}
	return out
}

// Recent returns at most n of the newest lines, oldest first.
func (c *Console) Recent(n int) []ConsoleEntry {
	entries := c.Entries()
	if n <= 0 || len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}

func parseEntry(p []byte) ConsoleEntry {
	raw := strings.TrimSpace(string(p))
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return ConsoleEntry{Timestamp: time.Now().UTC(), Level: InfoLevel, Message: raw}
	}

	e := ConsoleEntry{Timestamp: time.Now().UTC(), Level: InfoLevel}
	if v, ok := fields["level"].(string); ok {
		e.Level = v
	}
	if v, ok := fields["msg"].(string); ok {
		e.Message = v
	}
	if v, ok := fields["ts"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			e.Timestamp = ts
		}
	}
	delete(fields, "level")
	delete(fields, "msg")
	delete(fields, "ts")
	if len(fields) > 0 {
		e.Fields = fields
	}
	return e
}
