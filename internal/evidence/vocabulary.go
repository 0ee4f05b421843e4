package evidence

import (
	"fmt"
	"io"
	"os"

	"github.com/mikey/phish-dashboard/internal/core"
	"gopkg.in/yaml.v3"
)

// Vocabulary maps a check kind to the ordered feature keys shown to the user
type Vocabulary map[core.CheckKind][]string

// DefaultVocabulary returns the built-in allow-lists
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		core.KindURL: {
			"url_length", "has_ip_address", "has_at_symbol",
			"domain_length", "has_https", "has_suspicious_tld",
			"has_login_form", "has_password_field", "has_suspicious_title",
		},
		core.KindEmail: {
			"subject_has_urgent_words", "sender_has_domain_mismatch",
			"body_has_suspicious_links", "body_has_urgent_language",
			"body_requests_sensitive_info", "subject_length",
			"body_has_html", "num_links",
		},
	}
}

// AllowList returns the keys for a kind; unknown kinds get an empty list
func (v Vocabulary) AllowList(kind core.CheckKind) []string {
	return v[kind]
}

type vocabularyFile struct {
	URLs   []string `yaml:"urls"`
	Emails []string `yaml:"emails"`
}

// ReadVocabulary parses a YAML document of the form
//
//	urls: [url_length, has_https]
//	emails: [num_links]
//
// A kind missing from the document keeps its built-in list.
func ReadVocabulary(r io.Reader) (Vocabulary, error) {
	var doc vocabularyFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse feature vocabulary: %w", err)
	}

	vocab := DefaultVocabulary()
	if doc.URLs != nil {
		vocab[core.KindURL] = doc.URLs
	}
	if doc.Emails != nil {
		vocab[core.KindEmail] = doc.Emails
	}
	return vocab, nil
}

// LoadVocabulary reads the vocabulary from path, or returns the defaults when path is empty
func LoadVocabulary(path string) (Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feature vocabulary: %w", err)
	}
	defer f.Close()
	return ReadVocabulary(f)
}
