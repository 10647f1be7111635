package nullable

import (
	"bytes"
	"encoding/json"
)

// Int64 distinguishes a JSON field that is absent from one explicitly set to null.
type Int64 struct {
	Set   bool
	Value *int64
}

func (n *Int64) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (n Int64) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

func Of(v int64) Int64 {
	return Int64{Set: true, Value: &v}
}

func Null() Int64 {
	return Int64{Set: true}
}
