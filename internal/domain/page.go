package domain

import (
	"bytes"
	"encoding/json"
)

// Page decodes both plain JSON arrays and {count,next,previous,results} envelopes.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type pageEnvelope[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func (p *Page[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*p = Page[T]{Count: len(items), Results: items}
		return nil
	}
	var env pageEnvelope[T]
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	*p = Page[T](env)
	if p.Results == nil {
		p.Results = []T{}
	}
	return nil
}

func (p Page[T]) HasNext() bool { return p.Next != nil && *p.Next != "" }
