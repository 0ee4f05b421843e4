package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// CheckKind identifies which detection endpoint a request or record belongs to
type CheckKind string

const (
	KindURL   CheckKind = "urls"
	KindEmail CheckKind = "emails"
)

// ParseCheckKind maps a tab or flag value onto a CheckKind
func ParseCheckKind(s string) (CheckKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "urls", "url":
		return KindURL, nil
	case "emails", "email":
		return KindEmail, nil
	default:
		return "", fmt.Errorf("unknown check kind: %q", s)
	}
}

// URLCheckRequest is the body of POST /api/check-url
type URLCheckRequest struct {
	URL          string `json:"url"`
	FetchContent bool   `json:"fetch_content"`
}

// EmailCheckRequest is the body of POST /api/check-email
type EmailCheckRequest struct {
	Subject string `json:"subject"`
	Sender  string `json:"sender"`
	Body    string `json:"body"`
}

// Feature is a single named signal reported by the detection service
type Feature struct {
	Key   string
	Value any
}

// FeatureMap keeps the features in the order the service sent them.
// Numbers are decoded as json.Number so they render exactly as received.
type FeatureMap []Feature

// Get returns the value for key and whether it was present
func (m FeatureMap) Get(key string) (any, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// UnmarshalJSON decodes a JSON object while preserving key order
func (m *FeatureMap) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("features: expected object, got %v", tok)
	}

	out := FeatureMap{}
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("features: expected key, got %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("features: failed to decode %q: %w", key, err)
		}
		// Later duplicates win, as with a plain object
		if i, dup := seen[key]; dup {
			out[i].Value = value
			continue
		}
		seen[key] = len(out)
		out = append(out, Feature{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = out
	return nil
}

// MarshalJSON encodes the features as a JSON object in their current order
func (m FeatureMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// AnalyzedURL is the verdict for a link found inside an email body
type AnalyzedURL struct {
	URL        string `json:"url"`
	IsPhishing bool   `json:"is_phishing"`
}

// DetectionResult is the response of a check operation
type DetectionResult struct {
	URL          string        `json:"url,omitempty"`
	Subject      string        `json:"subject,omitempty"`
	Sender       string        `json:"sender,omitempty"`
	IsPhishing   bool          `json:"is_phishing"`
	Confidence   float64       `json:"confidence"`
	Features     FeatureMap    `json:"features,omitempty"`
	AnalyzedURLs []AnalyzedURL `json:"analyzed_urls,omitempty"`
}

// SubjectIdentifier returns the URL, or the subject and sender pairing, that was analyzed
func (r *DetectionResult) SubjectIdentifier() string {
	if r.URL != "" {
		return r.URL
	}
	switch {
	case r.Subject != "" && r.Sender != "":
		return fmt.Sprintf("%s (%s)", r.Subject, r.Sender)
	case r.Subject != "":
		return r.Subject
	default:
		return r.Sender
	}
}

// RecordID is an opaque history identifier; the service may send a number or a string
type RecordID string

// UnmarshalJSON accepts both JSON strings and numbers
func (id *RecordID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = RecordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("history id: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	time.RFC1123,
	time.RFC1123Z,
}

// Timestamp is a check time as reported by the service.
// Raw is kept so an unrecognised format can still be shown.
type Timestamp struct {
	Time time.Time
	Raw  string
}

// Valid reports whether the raw value was parsed
func (t Timestamp) Valid() bool {
	return !t.Time.IsZero()
}

// UnmarshalJSON parses the timestamp in any of the formats the service emits
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("checked_at: %w", err)
	}
	t.Raw = raw
	t.Time = time.Time{}
	for _, layout := range timestampLayouts {
		// Zone-less layouts are treated as UTC
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return nil
}

// MarshalJSON writes back the original representation
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Raw == "" && t.Valid() {
		return json.Marshal(t.Time.Format(time.RFC3339Nano))
	}
	return json.Marshal(t.Raw)
}

// HistoryRecord is an immutable snapshot of a past check
type HistoryRecord struct {
	ID         RecordID  `json:"id"`
	URL        string    `json:"url,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	Sender     string    `json:"sender,omitempty"`
	CheckedAt  Timestamp `json:"checked_at"`
	IsPhishing bool      `json:"is_phishing"`
	Confidence float64   `json:"confidence"`
}

// CategoryStats are the aggregate counts for one check kind
type CategoryStats struct {
	Total              int     `json:"total"`
	PhishingCount      int     `json:"phishing"`
	LegitimateCount    int     `json:"legitimate"`
	PhishingPercentage float64 `json:"phishing_percentage"`
}

// Stats is the response of GET /api/stats
type Stats struct {
	URLs   CategoryStats `json:"urls"`
	Emails CategoryStats `json:"emails"`
}

// CacheEntry is a cached history snapshot
type CacheEntry struct {
	Key       string
	Payload   []byte
	StoredAt  time.Time
	ExpiresAt time.Time
}
