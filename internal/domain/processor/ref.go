package processor

import (
	"bytes"
	"encoding/json"
)

// Ref is a processor field that arrives either as a bare id string or as the
// expanded object, depending on the request's expand list and API version.
type Ref[T any] struct {
	ID     string
	Object *T
}

// IsExpanded reports whether the full object was delivered
func (r *Ref[T]) IsExpanded() bool {
	return r != nil && r.Object != nil
}

// GetID is nil-safe
func (r *Ref[T]) GetID() string {
	if r == nil {
		return ""
	}
	return r.ID
}

func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}

	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	obj := new(T)
	if err := json.Unmarshal(data, obj); err != nil {
		return err
	}
	r.ID = head.ID
	r.Object = obj
	return nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Object != nil {
		return json.Marshal(r.Object)
	}
	return json.Marshal(r.ID)
}

// NewRef builds an unexpanded reference
func NewRef[T any](id string) *Ref[T] {
	if id == "" {
		return nil
	}
	return &Ref[T]{ID: id}
}

// Expanded builds a reference carrying the full object
func Expanded[T any](id string, obj *T) *Ref[T] {
	return &Ref[T]{ID: id, Object: obj}
}
