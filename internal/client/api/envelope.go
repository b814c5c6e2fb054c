package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Envelope is the wrapper the backend puts around every payload.
type Envelope[T any] struct {
	Error      bool `json:"error"`
	Message    T    `json:"message"`
	TotalPages *int `json:"totalPages,omitempty"`
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items []T
	// TotalPages is only meaningful when Known is true; the backend omits it
	// on several endpoints.
	TotalPages int
	Known      bool
}

// decodeEnvelope unwraps a single payload.
func decodeEnvelope[T any](data []byte) (T, error) {
	var env Envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		var zero T
		return zero, fmt.Errorf("decode envelope: %w", err)
	}
	return env.Message, nil
}

// decodePage accepts either an envelope around a list or a bare JSON array.
func decodePage[T any](data []byte) (Page[T], error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Page[T]{Items: []T{}}, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Page[T]{}, fmt.Errorf("decode list: %w", err)
		}
		return Page[T]{Items: nonNil(items)}, nil
	}

	var env Envelope[[]T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Page[T]{}, fmt.Errorf("decode page envelope: %w", err)
	}
	p := Page[T]{Items: nonNil(env.Message)}
	if env.TotalPages != nil && *env.TotalPages > 0 {
		p.TotalPages = *env.TotalPages
		p.Known = true
	}
	return p, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// decodeText reads a message that is either a string or any other JSON
// value, which is rendered back as compact JSON.
func decodeText(data []byte) (string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", nil
	}
	raw, err := decodeEnvelope[json.RawMessage](data)
	if err != nil {
		return "", err
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s, nil
	}
	return strings.TrimSpace(string(raw)), nil
}

// ErrNoToken is returned when a login response carries no token.
var ErrNoToken = errors.New("login response has no token")

// decodeToken accepts {"message":"<jwt>"} or {"message":{"token":"<jwt>"}}.
func decodeToken(data []byte) (string, error) {
	raw, err := decodeEnvelope[json.RawMessage](data)
	if err != nil {
		return "", err
	}
	var s string
	if json.Unmarshal(raw, &s) == nil && s != "" {
		return s, nil
	}
	var obj struct {
		Token       string `json:"token"`
		AccessToken string `json:"accessToken"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		if obj.Token != "" {
			return obj.Token, nil
		}
		if obj.AccessToken != "" {
			return obj.AccessToken, nil
		}
	}
	return "", ErrNoToken
}

// ErrNoURL is returned when an upload response carries no recognizable URL.
var ErrNoURL = errors.New("upload response has no url")

// uploadURLFields lists the names upload providers use for the stored file's URL,
// in order of preference.
var uploadURLFields = []string{"url", "secure_url", "secureUrl", "imageUrl", "photoUrl", "location"}

// decodeUploadURL finds the uploaded file's URL, looking at the top level and
// inside message, which may itself be the URL string.
func decodeUploadURL(data []byte) (string, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if u := pickURL(top); u != "" {
		return u, nil
	}
	if raw, ok := top["message"]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil && strings.HasPrefix(s, "http") {
			return s, nil
		}
		var nested map[string]json.RawMessage
		if json.Unmarshal(raw, &nested) == nil {
			if u := pickURL(nested); u != "" {
				return u, nil
			}
		}
	}
	return "", ErrNoURL
}

func pickURL(m map[string]json.RawMessage) string {
	for _, field := range uploadURLFields {
		raw, ok := m[field]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
	}
	return ""
}
