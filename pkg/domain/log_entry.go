package domain

import (
	"strconv"
	"strings"
)

// LogEntry is one structured record decoded from a log line.
// Values are string, float64, int64, bool, nil, map[string]interface{}
// or []interface{}.
type LogEntry struct {
	// Line is the 1-based line number of the record in its source
	Line   int
	Fields map[string]interface{}
}

// NewLogEntry wraps already decoded fields
func NewLogEntry(line int, fields map[string]interface{}) *LogEntry {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	return &LogEntry{Line: line, Fields: fields}
}

// Lookup resolves a dotted path such as "host.name" through nested objects.
// Numeric segments index into arrays.
func (e *LogEntry) Lookup(path string) (interface{}, bool) {
	if e == nil || path == "" {
		return nil, false
	}

	var cur interface{} = e.Fields
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []interface{}:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// String returns the value at path rendered as a string. Only scalar values
// are rendered; objects, arrays and null report false.
func (e *LogEntry) String(path string) (string, bool) {
	v, ok := e.Lookup(path)
	if !ok {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}
