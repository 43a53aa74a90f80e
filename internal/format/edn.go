package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes an EDN representation of v.
//
// Values go through encoding/json first so json tags decide field names; the
// encoder then handles the JSON subset (maps, vectors, strings, numbers,
// booleans, nil).
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&x); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := ednEncoder{pretty: pretty, indent: 2}
	enc.writeAny(&buf, x, 0)
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

type ednEncoder struct {
	pretty bool
	indent int
}

func (e ednEncoder) writeAny(buf *bytes.Buffer, v any, level int) {
	switch t := v.(type) {
	case nil:
		buf.WriteString("nil")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case string:
		buf.WriteString(strconv.Quote(t))
	case json.Number:
		buf.WriteString(t.String())
	case []any:
		e.open(buf, '[', len(t) == 0)
		for i, it := range t {
			e.elem(buf, i, level)
			e.writeAny(buf, it, level+1)
		}
		e.close(buf, ']', len(t) == 0, level)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.open(buf, '{', len(keys) == 0)
		for i, k := range keys {
			e.elem(buf, i, level)
			buf.WriteString(ednKey(k))
			buf.WriteByte(' ')
			e.writeAny(buf, t[k], level+1)
		}
		e.close(buf, '}', len(keys) == 0, level)
	default:
		buf.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
	}
}

func (e ednEncoder) open(buf *bytes.Buffer, c byte, empty bool) {
	buf.WriteByte(c)
	if e.pretty && !empty {
		buf.WriteByte('\n')
	}
}

func (e ednEncoder) elem(buf *bytes.Buffer, i, level int) {
	if i > 0 {
		if e.pretty {
			buf.WriteByte('\n')
		} else {
			buf.WriteByte(' ')
		}
	}
	if e.pretty {
		buf.WriteString(strings.Repeat(" ", (level+1)*e.indent))
	}
}

func (e ednEncoder) close(buf *bytes.Buffer, c byte, empty bool, level int) {
	if e.pretty && !empty {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat(" ", level*e.indent))
	}
	buf.WriteByte(c)
}

// ednKey renders a map key as a keyword when it is a legal one, otherwise as a string.
func ednKey(k string) string {
	if k == "" {
		return `""`
	}
	if c := k[0]; c >= '0' && c <= '9' {
		return strconv.Quote(k)
	}
	for _, r := range k {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_*+!?<>=.", r):
		default:
			return strconv.Quote(k)
		}
	}
	return ":" + k
}
