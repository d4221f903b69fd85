package domain

import (
	"bytes"
	"encoding/json"
)

// UnmarshalJSON accepts "id", 42 or {"id": ..., "name": ...}.
func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '"':
		return json.Unmarshal(b, &r.ID)
	case '{':
		var obj struct {
			ID    json.RawMessage `json:"id"`
			Name  string          `json:"name"`
			Title string          `json:"title"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		r.ID = rawID(obj.ID)
		r.Name = obj.Name
		if r.Name == "" {
			r.Name = obj.Title
		}
		return nil
	default:
		r.ID = rawID(b)
		return nil
	}
}

func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return string(raw)
}

// ID decodes ids the API sends either as strings or as integers.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	*id = ID(rawID(b))
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }
