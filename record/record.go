// Package record provides an ordered, flat key-value record. Records come from spreadsheet rows or decoded JSON
// payloads, and the order of their keys is significant for display, so a plain map is not enough.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
)

// Field is a single key and its value.
type Field struct {
	Key   string
	Value any
}

// Record is a sequence of fields with unique keys, kept in insertion order.
type Record []Field

// Of builds a record from alternating keys and values, e.g. Of("date", "13/01/2025", "Age", 50). It panics if given an
// odd number of arguments or a non-string key, so it is intended for literals in fixtures and tests.
func Of(pairs ...any) Record {
	if len(pairs)%2 != 0 {
		panic("record.Of: odd number of arguments")
	}
	r := make(Record, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("record.Of: key at position %d is %T, not string", i, pairs[i]))
		}
		r = r.Set(k, pairs[i+1])
	}
	return r
}

func (r Record) index(key string) int {
	for i, f := range r {
		if f.Key == key {
			return i
		}
	}
	return -1
}

// Get returns the value stored under key, and whether the key is present.
func (r Record) Get(key string) (any, bool) {
	if i := r.index(key); i >= 0 {
		return r[i].Value, true
	}
	return nil, false
}

// Has reports whether key is present.
func (r Record) Has(key string) bool {
	return r.index(key) >= 0
}

// Keys returns the record's keys in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r)
}

// Set returns a new record with key set to value. An existing key keeps its position; a new key is appended.
// The receiver is never modified.
func (r Record) Set(key string, value any) Record {
	out := r.Clone()
	if i := out.index(key); i >= 0 {
		out[i].Value = value
		return out
	}
	return append(out, Field{Key: key, Value: value})
}

// Clone returns a copy of the record that shares no backing array with r. Values themselves are not deep copied.
func (r Record) Clone() Record {
	out := make(Record, len(r), len(r)+1)
	copy(out, r)
	return out
}

// Equal reports whether both records hold the same keys, in the same order, with equal values.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i].Key != other[i].Key {
			return false
		}
		if !reflect.DeepEqual(r[i].Value, other[i].Value) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the record as a JSON object with keys in record order.
func (r Record) MarshalJSON() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", f.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping keys in document order. Numbers are kept as json.Number so that they
// re-encode exactly as they were read. When a key repeats, it keeps its first position and its last value.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	rec, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

func decodeObject(dec *json.Decoder) (Record, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("record must be a JSON object, got %v", tok)
	}

	rec := make(Record, 0)
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var value any
		if err = dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decoding field %q: %w", key, err)
		}
		if i := rec.index(key); i >= 0 {
			rec[i].Value = value
			continue
		}
		rec = append(rec, Field{Key: key, Value: value})
	}

	// closing '}'
	if _, err = dec.Token(); err != nil {
		return nil, err
	}
	return rec, nil
}

// DecodeRecords reads a JSON array of objects.
func DecodeRecords(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty input, expected a JSON array of records")
		}
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("expected a JSON array of records, got %v", tok)
	}

	records := make([]Record, 0)
	for dec.More() {
		rec, err := decodeObject(dec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
	if _, err = dec.Token(); err != nil {
		return nil, err
	}
	if _, err = dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after the JSON array of records")
	}
	return records, nil
}

// EncodeRecords writes records as an indented JSON array.
func EncodeRecords(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(records)
}
