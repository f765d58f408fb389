package model

import "github.com/spf13/cast"

// Record is one ingested log line. The input is schemaless line-delimited
// JSON, so fields are loosely typed and checked at the point of use.
type Record map[string]any

// Timestamp returns the "@timestamp" field as a string. The second return
// value is false when the field is absent, null, empty, or not coercible.
func (r Record) Timestamp() (string, bool) {
	return r.stringField("@timestamp")
}

// URL returns the "url" field, the grouping key for aggregation.
func (r Record) URL() (string, bool) {
	return r.stringField("url")
}

// ResponseTime returns the "response_time" field in seconds. Absent, null,
// and non-numeric values report false.
func (r Record) ResponseTime() (float64, bool) {
	v, ok := r["response_time"]
	if !ok || v == nil {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (r Record) stringField(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}
