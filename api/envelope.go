package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotJSON is returned when a response body carries no parsable JSON object
	ErrNotJSON = errors.New("non-JSON response")
	// ErrRequestFailed marks responses with a non-2xx status or success=false
	ErrRequestFailed = errors.New("request failed")
)

// RemoteError carries the server's message for a failed request
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: HTTP %d", ErrRequestFailed, e.Status)
	}
	return fmt.Sprintf("%s: %s", ErrRequestFailed, e.Message)
}

// Is matches ErrRequestFailed
func (e *RemoteError) Is(target error) bool { return target == ErrRequestFailed }

// Envelope is the common response wrapper; list payloads may sit at the top level or under data
type Envelope struct {
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`

	raw []byte
}

// Failed reports an explicit success=false
func (e *Envelope) Failed() bool { return e.Success != nil && !*e.Success }

// OK reports an explicit success=true
func (e *Envelope) OK() bool { return e.Success != nil && *e.Success }

// Field decodes a named field from the top level, falling back to the same name inside data
// found is false when neither location carries the field
func (e *Envelope) Field(name string, v any) (found bool, err error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(e.raw, &top); err != nil {
		return false, fmt.Errorf("%w: %w", ErrNotJSON, err)
	}
	if f, ok := top[name]; ok && !isNull(f) {
		return true, json.Unmarshal(f, v)
	}
	if len(e.Data) == 0 || isNull(e.Data) {
		return false, nil
	}
	var inner map[string]json.RawMessage
	if json.Unmarshal(e.Data, &inner) != nil {
		return false, nil
	}
	if f, ok := inner[name]; ok && !isNull(f) {
		return true, json.Unmarshal(f, v)
	}
	return false, nil
}

// DecodeData decodes the data object into v; absent data leaves v untouched
func (e *Envelope) DecodeData(v any) error {
	if len(e.Data) == 0 || isNull(e.Data) {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}

// Unwrap strips a BOM and surrounding noise, returning the outermost {...} span
// ok is false when the text holds no brace pair
func Unwrap(body []byte) (obj []byte, ok bool) {
	t := bytes.TrimPrefix(body, []byte("\uFEFF"))
	t = bytes.TrimSpace(t)
	first := bytes.IndexByte(t, '{')
	last := bytes.LastIndexByte(t, '}')
	if first == -1 || last <= first {
		return t, false
	}
	return t[first : last+1], true
}

// ParseEnvelope leniently decodes a response body
func ParseEnvelope(body []byte) (*Envelope, error) {
	obj, ok := Unwrap(body)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotJSON, snippet(body))
	}
	env := &Envelope{raw: obj}
	if err := json.Unmarshal(obj, env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotJSON, err)
	}
	return env, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func snippet(b []byte) string {
	const limit = 200
	if len(b) > limit {
		b = b[:limit]
	}
	return string(b)
}
