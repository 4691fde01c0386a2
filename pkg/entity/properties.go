package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Properties is an insertion-ordered map of property names to values.
//
// Query results carry properties in a meaningful column order, so unlike
// a plain map the key order survives Set, Clone and a JSON round trip.
// The zero value is an empty, usable map.
type Properties struct {
	keys   []string
	values map[string]any
}

// NewProperties builds Properties from alternating key/value pairs.
// It panics if kv has odd length or a key is not a string; it is meant
// for literals in tests and examples.
func NewProperties(kv ...any) Properties {
	if len(kv)%2 != 0 {
		panic("entity: NewProperties needs key/value pairs")
	}
	var p Properties
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("entity: property key %v is not a string", kv[i]))
		}
		p.Set(k, kv[i+1])
	}
	return p
}

// Set stores v under key. Existing keys keep their position.
func (p *Properties) Set(key string, v any) {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = v
}

// Get returns the value stored under key.
func (p Properties) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Delete removes key. It is a no-op for unknown keys.
func (p *Properties) Delete(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	p.keys = slices.DeleteFunc(p.keys, func(k string) bool { return k == key })
}

// Keys returns the property names in insertion order.
func (p Properties) Keys() []string { return slices.Clone(p.keys) }

// Len returns the number of properties.
func (p Properties) Len() int { return len(p.keys) }

// Clone returns a copy that shares no key slice or map with p.
// Values themselves are copied shallowly.
func (p Properties) Clone() Properties {
	if len(p.keys) == 0 {
		return Properties{}
	}
	out := Properties{
		keys:   slices.Clone(p.keys),
		values: make(map[string]any, len(p.values)),
	}
	for k, v := range p.values {
		out.values[k] = v
	}
	return out
}

// Equal reports whether p and o hold the same keys in the same order
// with values that format identically.
func (p Properties) Equal(o Properties) bool {
	if !slices.Equal(p.keys, o.keys) {
		return false
	}
	for _, k := range p.keys {
		if fmt.Sprint(p.values[k]) != fmt.Sprint(o.values[k]) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the properties as a JSON object in key order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the document's key order.
// Numbers are kept as json.Number so integer ids and float weights are not
// conflated.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*p = Properties{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("properties: expected object, got %v", tok)
	}

	out := Properties{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("properties: expected key, got %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}
