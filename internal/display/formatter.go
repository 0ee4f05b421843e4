package display

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mikey/phish-dashboard/internal/core"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultTruncateLength is the display width for URLs, subjects and senders
const DefaultTruncateLength = 50

const ellipsis = "..."

var supportedLocales = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.German,
	language.French,
	language.Spanish,
	language.Japanese,
}

var dateLayouts = map[language.Tag]string{
	language.AmericanEnglish: "1/2/2006, 3:04:05 PM",
	language.BritishEnglish:  "02/01/2006, 15:04:05",
	language.German:          "2.1.2006, 15:04:05",
	language.French:          "02/01/2006 15:04:05",
	language.Spanish:         "2/1/2006, 15:04:05",
	language.Japanese:        "2006/1/2 15:04:05",
}

var matcher = language.NewMatcher(supportedLocales)

// Formatter renders values for display in a fixed locale and time zone
type Formatter struct {
	logger         *zap.Logger
	tag            language.Tag
	printer        *message.Printer
	location       *time.Location
	truncateLength int
}

// NewFormatter creates a formatter for locale (a BCP 47 tag) and timezone
// (an IANA name, "Local" or "UTC"). Unknown values fall back to en-US and Local.
func NewFormatter(logger *zap.Logger, locale, timezone string, truncateLength int) *Formatter {
	requested, err := language.Parse(locale)
	if err != nil {
		logger.Warn("Unknown display locale, using en-US", zap.String("locale", locale), zap.Error(err))
		requested = language.AmericanEnglish
	}
	_, index, _ := matcher.Match(requested)
	tag := supportedLocales[index]

	location := time.Local
	if timezone != "" && timezone != "Local" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			logger.Warn("Unknown display timezone, using local time", zap.String("timezone", timezone), zap.Error(err))
		} else {
			location = loc
		}
	}

	if truncateLength <= 0 {
		truncateLength = DefaultTruncateLength
	}

	return &Formatter{
		logger:         logger,
		tag:            tag,
		printer:        message.NewPrinter(tag),
		location:       location,
		truncateLength: truncateLength,
	}
}

// Locale returns the matched locale
func (f *Formatter) Locale() language.Tag {
	return f.tag
}

// Truncate shortens text to the configured length
func (f *Formatter) Truncate(text string) string {
	return TruncateText(text, f.truncateLength)
}

// TruncateText keeps the first maxLength characters of text and appends
// "..." when anything was cut. The input is never modified.
func TruncateText(text string, maxLength int) string {
	if maxLength <= 0 || utf8.RuneCountInString(text) <= maxLength {
		return text
	}

	var b strings.Builder
	n := 0
	for _, r := range text {
		if n == maxLength {
			break
		}
		b.WriteRune(r)
		n++
	}
	b.WriteString(ellipsis)
	return b.String()
}

// Timestamp renders a check time in the configured locale and zone.
// A timestamp the service sent in an unknown format is shown as received.
func (f *Formatter) Timestamp(ts core.Timestamp) string {
	if !ts.Valid() {
		return ts.Raw
	}
	return f.Time(ts.Time)
}

// Time renders t in the configured locale and zone
func (f *Formatter) Time(t time.Time) string {
	return t.In(f.location).Format(dateLayouts[f.tag])
}

// Confidence renders a [0,1] confidence as a whole percentage, e.g. 0.92 -> "92%"
func (f *Formatter) Confidence(c float64) string {
	return f.printer.Sprintf("%d%%", RoundPercent(c))
}

// Percentage renders an already-scaled percentage with one decimal
func (f *Formatter) Percentage(p float64) string {
	return f.printer.Sprintf("%.1f%%", p)
}

// Count renders an integer with locale digit grouping
func (f *Formatter) Count(n int) string {
	return f.printer.Sprintf("%d", n)
}

// RoundPercent scales a [0,1] value to a whole percentage, rounding halves up
func RoundPercent(c float64) int {
	return int(math.Floor(c*100 + 0.5))
}

// SanitizeUTF8 drops invalid byte sequences so text can be rendered safely
func (f *Formatter) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	sanitized := strings.ToValidUTF8(text, "")
	f.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(sanitized)))
	return sanitized
}
