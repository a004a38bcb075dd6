package httpx

import (
	"encoding/json"
	"time"
)

// Optional distinguishes an absent PATCH field from an explicit null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true

	if string(b) == "null" {
		o.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	o.Value = &v

	return nil
}

// Null reports whether the field was sent as an explicit null.
func (o Optional[T]) Null() bool {
	return o.Set && o.Value == nil
}

// Date is a calendar day that accepts both "2006-01-02" and RFC 3339 input.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	t, err := ParseDate(s)
	if err != nil {
		return err
	}

	d.Time = t

	return nil
}

// Ptr returns nil for the zero date.
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}

	return new(d.Time)
}
