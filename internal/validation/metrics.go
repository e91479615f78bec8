package validation

import (
	"regexp"
	"strings"
)

// numberPattern matches a numeric literal, optionally followed by a percent sign
var numberPattern = regexp.MustCompile(`\p{Nd}+(?:\.\p{Nd}*)?%?`)

// DefaultMetricWords are the magnitude words counted as a quantified result:
// ten-thousand, thousand, hundred and times/-fold.
var DefaultMetricWords = []string{"万", "千", "百", "倍"}

// MetricDetector decides whether a text fragment contains a quantifiable result.
type MetricDetector struct {
	words []string
}

// NewMetricDetector returns a detector for the given magnitude words.
// A nil word list uses DefaultMetricWords.
func NewMetricDetector(words []string) *MetricDetector {
	if words == nil {
		words = DefaultMetricWords
	}
	cleaned := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			cleaned = append(cleaned, w)
		}
	}
	return &MetricDetector{words: cleaned}
}

// Contains reports whether text has a number or a magnitude word.
func (d *MetricDetector) Contains(text string) bool {
	if text == "" {
		return false
	}
	if numberPattern.MatchString(text) {
		return true
	}
	for _, w := range d.words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// ContainsMetric reports whether text has a quantified result using the default words.
func ContainsMetric(text string) bool {
	return defaultMetricDetector.Contains(text)
}

var defaultMetricDetector = NewMetricDetector(nil)
