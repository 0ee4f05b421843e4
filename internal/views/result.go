package views

import (
	"github.com/mikey/phish-dashboard/internal/core"
	"github.com/mikey/phish-dashboard/internal/display"
	"github.com/mikey/phish-dashboard/internal/evidence"
)

// AnalyzedURLRow is a link found in an email with its verdict
type AnalyzedURLRow struct {
	URL        string
	IsPhishing bool
	Verdict    string
}

// ResultView is a DetectionResult shaped for display
type ResultView struct {
	Kind         core.CheckKind
	IsPhishing   bool
	Title        string
	URL          string
	Subject      string
	Sender       string
	Confidence   string
	Explanation  string
	Features     []evidence.Row
	AnalyzedURLs []AnalyzedURLRow
}

// NewResultView projects a result through the vocabulary for its kind
func NewResultView(kind core.CheckKind, result *core.DetectionResult, vocab evidence.Vocabulary, f *display.Formatter) *ResultView {
	if result == nil {
		return nil
	}

	view := &ResultView{
		Kind:       kind,
		IsPhishing: result.IsPhishing,
		Confidence: "Confidence: " + f.Confidence(result.Confidence),
		Features:   evidence.Project(result.Features, vocab.AllowList(kind)),
	}

	switch kind {
	case core.KindEmail:
		view.Subject = orDefault(result.Subject, "(No subject)")
		view.Sender = orDefault(result.Sender, "(Unknown sender)")
		if result.IsPhishing {
			view.Title = "Potential Phishing Email Detected"
			view.Explanation = "This email shows characteristics commonly associated with phishing attempts. " +
				"Be cautious about clicking any links or responding with personal information."
		} else {
			view.Title = "Email Appears Legitimate"
			view.Explanation = "Our analysis indicates this email is likely legitimate. " +
				"However, always stay vigilant when responding to emails requesting sensitive information."
		}
		for _, u := range result.AnalyzedURLs {
			row := AnalyzedURLRow{URL: u.URL, IsPhishing: u.IsPhishing, Verdict: "Legitimate"}
			if u.IsPhishing {
				row.Verdict = "Suspicious"
			}
			view.AnalyzedURLs = append(view.AnalyzedURLs, row)
		}
	default:
		view.URL = result.URL
		if result.IsPhishing {
			view.Title = "Potential Phishing Detected"
			view.Explanation = "This URL shows characteristics commonly associated with phishing attempts. " +
				"Be cautious about sharing any personal information on this site."
		} else {
			view.Title = "URL Appears Legitimate"
			view.Explanation = "Our analysis indicates this URL is likely legitimate. " +
				"However, always stay vigilant when sharing sensitive information online."
		}
	}

	return view
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
