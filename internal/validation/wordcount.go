package validation

import "regexp"

// lengthUnitPattern counts a run of Latin letters, digits and "_" or a single CJK
// ideograph as one unit, since CJK text has no whitespace word boundaries.
var lengthUnitPattern = regexp.MustCompile(`[\p{Latin}\p{Nd}_]+|[\x{4e00}-\x{9fa5}]`)

// WordCount approximates the perceived length of text.
func WordCount(text string) int {
	if text == "" {
		return 0
	}
	return len(lengthUnitPattern.FindAllStringIndex(text, -1))
}
