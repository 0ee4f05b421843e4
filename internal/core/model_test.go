package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureMap_PreservesOrder(t *testing.T) {
	var m FeatureMap
	require.NoError(t, json.Unmarshal([]byte(`{"url_length":19,"has_https":false,"domain_length":11,"has_https":true}`), &m))

	require.Len(t, m, 3)
	assert.Equal(t, "url_length", m[0].Key)
	assert.Equal(t, json.Number("19"), m[0].Value)
	assert.Equal(t, "has_https", m[1].Key)
	assert.Equal(t, true, m[1].Value, "later duplicate wins")
	assert.Equal(t, "domain_length", m[2].Key)

	v, ok := m.Get("domain_length")
	assert.True(t, ok)
	assert.Equal(t, json.Number("11"), v)
	_, ok = m.Get("missing")
	assert.False(t, ok)

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"url_length":19,"has_https":true,"domain_length":11}`, string(out))
}

func TestFeatureMap_NullAndInvalid(t *testing.T) {
	var result DetectionResult
	require.NoError(t, json.Unmarshal([]byte(`{"is_phishing":true,"confidence":0.5,"features":null}`), &result))
	assert.Nil(t, result.Features)

	assert.Error(t, json.Unmarshal([]byte(`{"features":[1,2]}`), &result))
}

func TestRecordID(t *testing.T) {
	var recs []HistoryRecord
	require.NoError(t, json.Unmarshal([]byte(`[{"id":42,"checked_at":""},{"id":"abc","checked_at":""}]`), &recs))
	assert.Equal(t, RecordID("42"), recs[0].ID)
	assert.Equal(t, RecordID("abc"), recs[1].ID)

	var id RecordID
	assert.Error(t, json.Unmarshal([]byte(`{}`), &id))
}

func TestTimestamp(t *testing.T) {
	want := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	tests := []struct {
		raw   string
		valid bool
	}{
		{"2024-03-05T14:07:09Z", true},
		{"2024-03-05T14:07:09", true},
		{"2024-03-05T14:07:09.000123", true},
		{"2024-03-05 14:07:09", true},
		{"Tue, 05 Mar 2024 14:07:09 GMT", true},
		{"yesterday", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(`"`+tt.raw+`"`), &ts))
			assert.Equal(t, tt.raw, ts.Raw)
			assert.Equal(t, tt.valid, ts.Valid())
			if tt.valid {
				assert.True(t, want.Equal(ts.Time.Truncate(time.Second)))
			}
		})
	}
}

func TestParseCheckKind(t *testing.T) {
	kind, err := ParseCheckKind("URL")
	require.NoError(t, err)
	assert.Equal(t, KindURL, kind)

	kind, err = ParseCheckKind(" emails ")
	require.NoError(t, err)
	assert.Equal(t, KindEmail, kind)

	_, err = ParseCheckKind("sms")
	assert.Error(t, err)
}

func TestDetectionResult_SubjectIdentifier(t *testing.T) {
	assert.Equal(t, "http://a.example", (&DetectionResult{URL: "http://a.example"}).SubjectIdentifier())
	assert.Equal(t, "Hi", (&DetectionResult{Subject: "Hi"}).SubjectIdentifier())
	assert.Equal(t, "a@b.c", (&DetectionResult{Sender: "a@b.c"}).SubjectIdentifier())
}
