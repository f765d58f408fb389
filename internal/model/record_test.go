package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"logreport-backend/internal/model"
)

func TestRecord_URL(t *testing.T) {
	tests := []struct {
		name     string
		record   model.Record
		expected string
		ok       bool
	}{
		{name: "String", record: model.Record{"url": "/api/test"}, expected: "/api/test", ok: true},
		{name: "Empty", record: model.Record{"url": ""}, ok: false},
		{name: "Absent", record: model.Record{}, ok: false},
		{name: "Null", record: model.Record{"url": nil}, ok: false},
		{name: "Number Coerced", record: model.Record{"url": 42}, expected: "42", ok: true},
		{name: "Object Rejected", record: model.Record{"url": map[string]any{}}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, ok := tt.record.URL()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, url)
		})
	}
}

func TestRecord_ResponseTime(t *testing.T) {
	tests := []struct {
		name     string
		record   model.Record
		expected float64
		ok       bool
	}{
		{name: "Float", record: model.Record{"response_time": 0.125}, expected: 0.125, ok: true},
		{name: "Integer", record: model.Record{"response_time": 2}, expected: 2, ok: true},
		{name: "Numeric String", record: model.Record{"response_time": "0.25"}, expected: 0.25, ok: true},
		{name: "Absent", record: model.Record{}, ok: false},
		{name: "Null", record: model.Record{"response_time": nil}, ok: false},
		{name: "Garbage String", record: model.Record{"response_time": "fast"}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, ok := tt.record.ResponseTime()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, rt)
		})
	}
}

func TestRecord_Timestamp(t *testing.T) {
	ts, ok := model.Record{"@timestamp": "2025-06-22T13:57:32Z"}.Timestamp()
	assert.True(t, ok)
	assert.Equal(t, "2025-06-22T13:57:32Z", ts)

	_, ok = model.Record{}.Timestamp()
	assert.False(t, ok)

	_, ok = model.Record{"@timestamp": ""}.Timestamp()
	assert.False(t, ok)
}
