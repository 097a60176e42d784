package logsource

import (
	"bytes"
	"fmt"

	"github.com/valyala/fastjson"
	"github.com/yairfalse/polmon/pkg/domain"
)

const framing = "[],"

// stripFraming removes whitespace and array punctuation from both edges
func stripFraming(line []byte) []byte {
	return bytes.Trim(bytes.TrimSpace(line), framing)
}

// decodeLine turns one raw line into an entry. It returns (nil, nil) for
// framing-only lines.
func decodeLine(p *fastjson.Parser, line []byte, lineNo int) (*domain.LogEntry, error) {
	record := stripFraming(line)
	if len(record) == 0 {
		return nil, nil
	}

	v, err := p.ParseBytes(record)
	if err != nil {
		return nil, &domain.DecodeError{Line: lineNo, Raw: string(bytes.TrimSpace(line)), Err: err}
	}
	if v.Type() != fastjson.TypeObject {
		return nil, &domain.DecodeError{
			Line: lineNo,
			Raw:  string(bytes.TrimSpace(line)),
			Err:  fmt.Errorf("record is a JSON %s, want object", v.Type()),
		}
	}

	fields, _ := toGo(v).(map[string]interface{})
	return domain.NewLogEntry(lineNo, fields), nil
}

// toGo copies a parsed value out of the parser's arena into plain Go values
func toGo(v *fastjson.Value) interface{} {
	switch v.Type() {
	case fastjson.TypeObject:
		o, _ := v.Object()
		m := make(map[string]interface{}, o.Len())
		o.Visit(func(key []byte, val *fastjson.Value) {
			m[string(key)] = toGo(val)
		})
		return m
	case fastjson.TypeArray:
		items, _ := v.Array()
		out := make([]interface{}, len(items))
		for i, item := range items {
			out[i] = toGo(item)
		}
		return out
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return string(b)
	case fastjson.TypeNumber:
		if n, err := v.Int64(); err == nil {
			return n
		}
		f, _ := v.Float64()
		return f
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	default:
		return nil
	}
}
