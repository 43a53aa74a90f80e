package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Texter is implemented by values with a human-readable rendering.
type Texter interface {
	Text() string
}

// Markdowner is implemented by values that can be published as a markdown document.
type Markdowner interface {
	Markdown() string
}

// Formats lists the accepted --format values.
var Formats = []string{"json", "edn", "text", "markdown"}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - edn
// - text (values implementing Texter; anything else falls back to JSON)
// - markdown (values implementing Markdowner; anything else falls back to JSON)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "edn":
		return WriteEDN(w, v, pretty)
	case "text":
		return WriteText(w, v, pretty)
	case "markdown", "md":
		return WriteMarkdown(w, v, pretty)
	default:
		return fmt.Errorf("unknown format: %s (want %s)", format, strings.Join(Formats, "|"))
	}
}

// WriteJSON writes strict JSON, one document per call.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

func WriteText(w io.Writer, v any, pretty bool) error {
	t, ok := v.(Texter)
	if !ok {
		return WriteJSON(w, v, pretty)
	}
	s := t.Text()
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}

func WriteMarkdown(w io.Writer, v any, pretty bool) error {
	md, ok := v.(Markdowner)
	if !ok {
		return WriteJSON(w, v, pretty)
	}
	s := md.Markdown()
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}
