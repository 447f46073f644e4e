package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrTempLogLength is returned when a temperature log's series differ in length.
var ErrTempLogLength = errors.New("temp log: datetime and temps lengths differ")

// WashMachine is the last-known state of one keg washer.
type WashMachine struct {
	Name    string   `json:"name"`
	Phases  []string `json:"phases"`
	TempLog TempLog  `json:"temp_log"`
}

// Clone returns a deep copy so callers never share slices with the store.
func (w WashMachine) Clone() WashMachine {
	out := WashMachine{Name: w.Name, TempLog: w.TempLog.Clone()}
	if w.Phases != nil {
		out.Phases = append([]string(nil), w.Phases...)
	}
	return out
}

// TempLog is a time series of water temperatures: two parallel sequences of equal length.
// A nil entry in Temps marks a sample the washer failed to read.
type TempLog struct {
	Datetime []Timestamp `json:"datetime"`
	Temps    []*float64  `json:"temps"`
}

// Validate checks the equal-length invariant.
func (l TempLog) Validate() error {
	if len(l.Datetime) != len(l.Temps) {
		return fmt.Errorf("%w: %d != %d", ErrTempLogLength, len(l.Datetime), len(l.Temps))
	}
	return nil
}

// Len returns the number of points.
func (l TempLog) Len() int { return len(l.Temps) }

// Latest returns the most recent valid reading.
func (l TempLog) Latest() (float64, bool) {
	for i := len(l.Temps) - 1; i >= 0; i-- {
		if l.Temps[i] != nil {
			return *l.Temps[i], true
		}
	}
	return 0, false
}

// Equal reports whether both logs hold the same points.
func (l TempLog) Equal(o TempLog) bool {
	if len(l.Datetime) != len(o.Datetime) || len(l.Temps) != len(o.Temps) {
		return false
	}
	for i := range l.Datetime {
		if l.Datetime[i] != o.Datetime[i] {
			return false
		}
	}
	for i := range l.Temps {
		a, b := l.Temps[i], o.Temps[i]
		if (a == nil) != (b == nil) {
			return false
		}
		if a != nil && *a != *b {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (l TempLog) Clone() TempLog {
	var out TempLog
	if l.Datetime != nil {
		out.Datetime = append([]Timestamp(nil), l.Datetime...)
	}
	if l.Temps != nil {
		out.Temps = make([]*float64, len(l.Temps))
		for i, t := range l.Temps {
			if t != nil {
				v := *t
				out.Temps[i] = &v
			}
		}
	}
	return out
}

// NewTempLog builds a log from plain values; handy for fixtures and simulators.
func NewTempLog(datetime []string, temps []float64) TempLog {
	l := TempLog{
		Datetime: make([]Timestamp, len(datetime)),
		Temps:    make([]*float64, len(temps)),
	}
	for i, d := range datetime {
		l.Datetime[i] = TimestampOf(d)
	}
	for i := range temps {
		v := temps[i]
		l.Temps[i] = &v
	}
	return l
}

// Timestamp keeps the raw JSON scalar of an x-axis value. The washer reports either
// formatted dates or plain numbers, and the chart accepts both, so the value is passed
// through untouched.
type Timestamp string

// TimestampOf wraps a string value as a JSON string timestamp.
func TimestampOf(s string) Timestamp {
	b, _ := json.Marshal(s)
	return Timestamp(b)
}

// UnmarshalJSON accepts a JSON string or number.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("timestamp: empty value")
	}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
	case c == '-' || (c >= '0' && c <= '9'):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
	default:
		return fmt.Errorf("timestamp: unsupported value %s", data)
	}
	*t = Timestamp(data)
	return nil
}

// MarshalJSON emits the value exactly as it was received.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t == "" {
		return []byte("null"), nil
	}
	return []byte(t), nil
}

// String returns the human form: the unquoted string or the number literal.
func (t Timestamp) String() string {
	if len(t) > 0 && t[0] == '"' {
		var s string
		if err := json.Unmarshal([]byte(t), &s); err == nil {
			return s
		}
	}
	return string(t)
}
