package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoData is returned when decoding an envelope that carries no data.
var ErrNoData = errors.New("response has no data")

// Envelope is the shape every backend endpoint answers with, whatever the
// HTTP status. Data is kept raw until the caller decodes it.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// HasData reports whether the envelope carries a non-null data field.
func (e *Envelope) HasData() bool {
	d := bytes.TrimSpace(e.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

// Decode unmarshals the data field into v.
func (e *Envelope) Decode(v any) error {
	if !e.HasData() {
		return ErrNoData
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("[Envelope Decode] %w", err)
	}
	return nil
}

// Response is an Envelope whose data has been decoded into T.
type Response[T any] struct {
	Success bool
	Message string
	Data    *T // nil when the backend sent no data
	Error   string
}

// OK reports a successful response that carries data.
func (r *Response[T]) OK() bool {
	return r != nil && r.Success && r.Data != nil
}

// Typed decodes env into a Response[T]. It is shaped to wrap a gateway call
// directly: api.Typed[Vehicle](client.Get(ctx, ep, nil)).
func Typed[T any](env *Envelope, err error) (*Response[T], error) {
	if err != nil {
		return nil, err
	}
	resp := &Response[T]{
		Success: env.Success,
		Message: env.Message,
		Error:   env.Error,
	}
	if !env.HasData() {
		return resp, nil
	}
	var data T
	if err := env.Decode(&data); err != nil {
		return nil, fmt.Errorf("[api Typed] %w", err)
	}
	resp.Data = &data
	return resp, nil
}
