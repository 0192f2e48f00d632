package bot

import (
	"fmt"
	"net/url"
	"strings"

	domerrors "github.com/garyellow/line-menu-bot-go/internal/errors"
)

// Grammar describes how postback data is split into key/value pairs.
// Producers and the parser must agree on the separators; payloads built
// with a different pair separator are rejected rather than misread.
//
// Keys and values use query encoding (url.QueryEscape), so a raw "+" in
// incoming data decodes to a space. A literal plus must arrive as "%2B",
// which is what Encode produces.
type Grammar struct {
	FieldSep string
	PairSep  string
}

// DefaultGrammar matches the payloads this bot emits: "action=search&lang=ja".
var DefaultGrammar = Grammar{FieldSep: "&", PairSep: "="}

// Field is one key/value pair in emit order.
type Field struct {
	Key   string
	Value string
}

// Values is a parsed postback payload. Duplicate keys keep the last value.
type Values map[string]string

// Get returns the value for key, or "" when absent.
func (v Values) Get(key string) string {
	return v[key]
}

// Has reports whether key was present, even with an empty value.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// ParseError reports why postback data could not be parsed.
// It unwraps to errors.ErrEmptyPostback or errors.ErrInvalidPostback.
type ParseError struct {
	Data   string
	Field  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("parse postback %q: %s", e.Data, e.Reason)
	}
	return fmt.Sprintf("parse postback %q: field %q: %s", e.Data, e.Field, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse splits data into Values. Empty segments between separators are
// skipped. Keys and values are query-decoded; "+" becomes a space.
func (g Grammar) Parse(data string) (Values, error) {
	if strings.TrimSpace(data) == "" {
		return nil, &ParseError{Data: data, Reason: "empty payload", Err: domerrors.ErrEmptyPostback}
	}

	values := make(Values)
	for _, field := range strings.Split(data, g.FieldSep) {
		if field == "" {
			continue
		}
		rawKey, rawValue, ok := strings.Cut(field, g.PairSep)
		if !ok {
			return nil, &ParseError{Data: data, Field: field, Reason: fmt.Sprintf("missing %q separator", g.PairSep), Err: domerrors.ErrInvalidPostback}
		}
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, &ParseError{Data: data, Field: field, Reason: "bad key encoding", Err: domerrors.ErrInvalidPostback}
		}
		if key == "" {
			return nil, &ParseError{Data: data, Field: field, Reason: "empty key", Err: domerrors.ErrInvalidPostback}
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, &ParseError{Data: data, Field: field, Reason: "bad value encoding", Err: domerrors.ErrInvalidPostback}
		}
		values[key] = value
	}

	if len(values) == 0 {
		return nil, &ParseError{Data: data, Reason: "no fields", Err: domerrors.ErrEmptyPostback}
	}
	return values, nil
}

// Encode joins fields in order, percent-encoding keys and values so that
// separators inside user text survive the round trip.
func (g Grammar) Encode(fields ...Field) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, url.QueryEscape(f.Key)+g.PairSep+url.QueryEscape(f.Value))
	}
	return strings.Join(parts, g.FieldSep)
}

// ParsePostback parses data with DefaultGrammar.
func ParsePostback(data string) (Values, error) {
	return DefaultGrammar.Parse(data)
}
