package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Normalize maps raw sheet rows onto Providers. Input order is preserved and
// rows without a name are dropped. Nil input yields an empty, non-nil slice.
func Normalize(records []RawRecord) []Provider {
	out := make([]Provider, 0, len(records))
	for _, rec := range records {
		p := normalizeRecord(rec)
		if p.Name == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// NormalizeRecordSet normalizes the fields of every record in the set. A zero
// RecordSet yields an empty, non-nil slice.
func NormalizeRecordSet(set RecordSet) []Provider {
	return Normalize(set.Fields())
}

// DecodeRecordSet parses an upstream response body. It fails only on invalid
// JSON; a well-formed body of any other shape yields an empty set, and records
// whose "fields" is not an object carry a nil RawRecord.
func DecodeRecordSet(data []byte) (RecordSet, error) {
	var top any
	if err := json.Unmarshal(data, &top); err != nil {
		return RecordSet{}, fmt.Errorf("decode record set: %w", err)
	}

	obj, ok := top.(map[string]any)
	if !ok {
		return RecordSet{}, nil
	}

	var set RecordSet
	if offset, ok := obj["offset"].(string); ok {
		set.Offset = offset
	}
	items, ok := obj["records"].([]any)
	if !ok {
		return set, nil
	}

	set.Records = make([]Record, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			set.Records = append(set.Records, Record{})
			continue
		}
		rec := Record{}
		rec.ID, _ = m["id"].(string)
		rec.CreatedTime, _ = m["createdTime"].(string)
		if fields, ok := m["fields"].(map[string]any); ok {
			rec.Fields = RawRecord(fields)
		}
		set.Records = append(set.Records, rec)
	}
	return set, nil
}

func normalizeRecord(rec RawRecord) Provider {
	category := firstText(rec, categoryAliases)
	if category == "" {
		category = DefaultCategory
	}

	return Provider{
		Name:               firstText(rec, nameAliases),
		Category:           category,
		Regions:            strings.Join(firstList(rec, regionsAliases), ", "),
		MobilizationWindow: firstText(rec, mobilizationAliases),
		Badges:             firstList(rec, badgesAliases),
		Phone:              firstText(rec, phoneAliases),
		Email:              firstText(rec, emailAliases),
		Website:            firstText(rec, websiteAliases),
	}
}

// firstText returns the first alias whose value coerces to a non-empty string.
func firstText(rec RawRecord, aliases []string) string {
	for _, alias := range aliases {
		if s := textValue(rec[alias]); s != "" {
			return s
		}
	}
	return ""
}

// firstList returns the first alias whose value coerces to a non-empty list.
// The result is never nil.
func firstList(rec RawRecord, aliases []string) []string {
	for _, alias := range aliases {
		if items := listValue(rec[alias]); len(items) > 0 {
			return items
		}
	}
	return []string{}
}

// textValue coerces a cell to a string. Lists are joined with ", ".
func textValue(v any) string {
	switch v.(type) {
	case []any, []string:
		return strings.Join(listValue(v), ", ")
	default:
		return scalarValue(v)
	}
}

// listValue coerces a cell to a list. Scalars are wrapped unless empty; list
// elements keep their positions, with nulls and non-scalar elements becoming
// "" the way a spreadsheet join renders them.
func listValue(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, len(t))
		for i, item := range t {
			out[i] = scalarValue(item)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	default:
		if s := scalarValue(v); s != "" {
			return []string{s}
		}
		return nil
	}
}

func scalarValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
