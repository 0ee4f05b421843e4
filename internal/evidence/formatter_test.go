package evidence

import (
	"encoding/json"
	"testing"

	"github.com/mikey/phish-dashboard/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeFeatures(t *testing.T, raw string) core.FeatureMap {
	t.Helper()
	var features core.FeatureMap
	require.NoError(t, json.Unmarshal([]byte(raw), &features))
	return features
}

func TestLabel(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"has_suspicious_tld", "Has Suspicious Tld"},
		{"url_length", "Url Length"},
		{"num_links", "Num Links"},
		{"single", "Single"},
		{"double__underscore", "Double  Underscore"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.key))
		})
	}
}

func TestValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"true", true, "Yes"},
		{"false", false, "No"},
		{"integer literal", json.Number("19"), "19"},
		{"decimal literal", json.Number("0.25"), "0.25"},
		{"float", 3.5, "3.5"},
		{"int", 7, "7"},
		{"string", "login", "login"},
		{"null", nil, "null"},
		{"array", []any{"a", json.Number("1")}, `["a",1]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Value(tt.in))
		})
	}
}

func TestProject(t *testing.T) {
	features := decodeFeatures(t, `{
		"has_https": false,
		"unknown_signal": 4,
		"url_length": 19,
		"has_suspicious_tld": true,
		"page_title": "Sign in"
	}`)

	rows := Project(features, DefaultVocabulary().AllowList(core.KindURL))

	assert.Equal(t, []Row{
		{Label: "Has Https", Value: "No"},
		{Label: "Url Length", Value: "19"},
		{Label: "Has Suspicious Tld", Value: "Yes"},
	}, rows)
}

func TestProject_Properties(t *testing.T) {
	features := decodeFeatures(t, `{"num_links": 3, "body_has_html": true, "x": 1, "subject_length": 12}`)
	allow := DefaultVocabulary().AllowList(core.KindEmail)

	once := Project(features, allow)
	labels := make(map[string]int)
	for _, r := range once {
		labels[r.Label]++
	}

	// every key in both sides appears exactly once, nothing else appears
	assert.Equal(t, map[string]int{"Num Links": 1, "Body Has Html": 1, "Subject Length": 1}, labels)

	// projecting the projection changes nothing
	again := make(core.FeatureMap, 0, len(features))
	for _, f := range features {
		for _, r := range once {
			if Label(f.Key) == r.Label {
				again = append(again, f)
			}
		}
	}
	assert.Equal(t, once, Project(again, allow))
}

func TestProject_EmptyInputs(t *testing.T) {
	assert.Empty(t, Project(nil, DefaultVocabulary().AllowList(core.KindURL)))
	assert.Empty(t, Project(decodeFeatures(t, `{"has_https": true}`), nil))
	assert.Empty(t, Project(decodeFeatures(t, `{"has_https": true}`), DefaultVocabulary().AllowList("unknown")))
}
