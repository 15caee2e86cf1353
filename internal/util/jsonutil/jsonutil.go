// Package jsonutil decodes JSON that went through an LLM on the way here:
// payloads may arrive wrapped in markdown fences, quoted as a whole, or with
// double-escaped unicode sequences.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// UnmarshalFlex tries to unmarshal raw into v with best effort:
// 1) direct unmarshal of the fence-stripped payload
// 2) unwrap a whole-string quoting layer and unmarshal again
func UnmarshalFlex(raw []byte, v any) error {
	raw = StripFences(raw)
	if err := json.Unmarshal(raw, v); err == nil {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if err := json.Unmarshal(StripFences([]byte(s)), v); err == nil {
			return nil
		}
	}
	return errors.New("jsonutil: cannot parse JSON payload")
}

// StripFences removes a surrounding markdown code fence (```json ... ``` or
// ``` ... ```) and leading prose up to the first JSON bracket. Models add
// both despite instructions not to.
func StripFences(raw []byte) []byte {
	s := bytes.TrimSpace(raw)
	if bytes.HasPrefix(s, []byte("```")) {
		if i := bytes.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		} else {
			s = bytes.TrimPrefix(s, []byte("```"))
		}
		if j := bytes.LastIndex(s, []byte("```")); j >= 0 {
			s = s[:j]
		}
		return bytes.TrimSpace(s)
	}
	// Tolerate a sentence of prose before the payload, but only when a JSON
	// bracket actually follows.
	if len(s) > 0 && s[0] != '{' && s[0] != '[' && s[0] != '"' {
		obj := bytes.IndexByte(s, '{')
		arr := bytes.IndexByte(s, '[')
		switch {
		case obj >= 0 && (arr < 0 || obj < arr):
			return bytes.TrimSpace(s[obj:])
		case arr >= 0:
			return bytes.TrimSpace(s[arr:])
		}
	}
	return s
}

// MarshalNoEscape encodes v into JSON without escaping <, >, & into \u003c
// and friends.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnescapeUnicodeString converts JSON unicode escapes like "\u003e" into
// actual characters, including double-escaped sequences.
// Input that does not decode is returned unchanged.
func UnescapeUnicodeString(s string) string {
	// Collapse a double-escaping layer first, then let the JSON decoder
	// resolve the \uXXXX sequences.
	esc := strings.ReplaceAll(s, `\\u`, `\u`)
	esc = strings.ReplaceAll(esc, `"`, `\"`)
	var out string
	if err := json.Unmarshal([]byte(`"`+esc+`"`), &out); err != nil {
		return s
	}
	return out
}
