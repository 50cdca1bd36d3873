package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// StoreList holds a submission's stores as ingested. When the stored text
// is not a JSON array, Invalid is set and Raw keeps the text verbatim.
type StoreList struct {
	Entries []StoreEntry
	Raw     string
	Invalid bool
}

// ApplicantList is the applicants counterpart of StoreList.
type ApplicantList struct {
	Entries []ApplicantEntry
	Raw     string
	Invalid bool
}

func NewStoreList(entries ...StoreEntry) StoreList {
	return StoreList{Entries: entries}
}

func NewApplicantList(entries ...ApplicantEntry) ApplicantList {
	return ApplicantList{Entries: entries}
}

// DecodeStoreList parses JSON text. Text that does not decode to an array
// is kept raw; non-object elements are dropped.
func DecodeStoreList(text string) StoreList {
	items, ok := decodeArray([]byte(text))
	if !ok {
		return StoreList{Raw: text, Invalid: true}
	}
	return StoreList{Entries: StoresFromItems(items)}
}

func DecodeApplicantList(text string) ApplicantList {
	items, ok := decodeArray([]byte(text))
	if !ok {
		return ApplicantList{Raw: text, Invalid: true}
	}
	return ApplicantList{Entries: ApplicantsFromItems(items)}
}

// StoresFromItems converts already-decoded JSON values, skipping anything
// that is not an object.
func StoresFromItems(items []any) []StoreEntry {
	out := make([]StoreEntry, 0, len(items))
	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, StoreEntry{
			Name:   stringField(rec, "name"),
			Period: stringField(rec, "period"),
		})
	}
	return out
}

func ApplicantsFromItems(items []any) []ApplicantEntry {
	out := make([]ApplicantEntry, 0, len(items))
	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, ApplicantEntry{
			Name:       stringField(rec, "name"),
			Phone:      stringField(rec, "phone"),
			NationalID: stringField(rec, "national_id"),
			Address:    stringField(rec, "address"),
		})
	}
	return out
}

func (l StoreList) MarshalJSON() ([]byte, error) {
	if l.Invalid {
		return json.Marshal(l.Raw)
	}
	if l.Entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.Entries)
}

func (l *StoreList) UnmarshalJSON(data []byte) error {
	text, items, kind := classify(data)
	switch kind {
	case jsonText:
		*l = DecodeStoreList(text)
	case jsonArray:
		*l = StoreList{Entries: StoresFromItems(items)}
	case jsonNull:
		*l = StoreList{}
	default:
		*l = StoreList{Raw: string(data), Invalid: true}
	}
	return nil
}

// Scan reads a JSON text column.
func (l *StoreList) Scan(src any) error {
	text, err := columnText(src)
	if err != nil {
		return err
	}
	if text == nil {
		*l = StoreList{}
		return nil
	}
	*l = DecodeStoreList(*text)
	return nil
}

// Value writes the list back as JSON text; raw lists are written unchanged.
func (l StoreList) Value() (driver.Value, error) {
	if l.Invalid {
		return l.Raw, nil
	}
	b, err := l.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l ApplicantList) MarshalJSON() ([]byte, error) {
	if l.Invalid {
		return json.Marshal(l.Raw)
	}
	if l.Entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.Entries)
}

func (l *ApplicantList) UnmarshalJSON(data []byte) error {
	text, items, kind := classify(data)
	switch kind {
	case jsonText:
		*l = DecodeApplicantList(text)
	case jsonArray:
		*l = ApplicantList{Entries: ApplicantsFromItems(items)}
	case jsonNull:
		*l = ApplicantList{}
	default:
		*l = ApplicantList{Raw: string(data), Invalid: true}
	}
	return nil
}

func (l *ApplicantList) Scan(src any) error {
	text, err := columnText(src)
	if err != nil {
		return err
	}
	if text == nil {
		*l = ApplicantList{}
		return nil
	}
	*l = DecodeApplicantList(*text)
	return nil
}

func (l ApplicantList) Value() (driver.Value, error) {
	if l.Invalid {
		return l.Raw, nil
	}
	b, err := l.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

type jsonKind int

const (
	jsonOther jsonKind = iota
	jsonNull
	jsonText
	jsonArray
)

// classify looks at an embedded JSON value: a string holding encoded
// entries, an inline array, null, or anything else.
func classify(data []byte) (string, []any, jsonKind) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil, jsonNull
	}
	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return "", nil, jsonOther
		}
		return text, nil, jsonText
	case '[':
		var items []any
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return "", nil, jsonOther
		}
		return "", items, jsonArray
	}
	return "", nil, jsonOther
}

func decodeArray(data []byte) ([]any, bool) {
	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	return items, true
}

func columnText(src any) (*string, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case string:
		return &v, nil
	case []byte:
		s := string(v)
		return &s, nil
	default:
		return nil, fmt.Errorf("unsupported list column type %T", src)
	}
}

func stringField(rec map[string]any, key string) string {
	switch v := rec[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
