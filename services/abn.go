package services

import (
	"strings"
)

// abnWeights are the published ATO weights applied to each of the 11 ABN digits.
var abnWeights = [11]int{10, 1, 3, 5, 7, 9, 11, 13, 15, 17, 19}

// NormalizeDigits strips every non-digit character from s.
// "51 824 753 556" → "51824753556"
func NormalizeDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateABN reports whether abn is an 11-digit Australian Business Number
// whose weighted checksum is divisible by 89. Spaces and punctuation are ignored.
// The leading digit has 1 subtracted before weighting.
func ValidateABN(abn string) bool {
	digits := NormalizeDigits(abn)
	if len(digits) != 11 {
		return false
	}

	sum := 0
	for i := 0; i < 11; i++ {
		d := int(digits[i] - '0')
		if i == 0 {
			d--
		}
		sum += d * abnWeights[i]
	}

	return sum%89 == 0
}

// FormatABN returns the ABN grouped for display as "DD DDD DDD DDD".
// Input that does not normalise to exactly 11 digits is returned unchanged.
func FormatABN(abn string) string {
	digits := NormalizeDigits(abn)
	if len(digits) != 11 {
		return abn
	}
	return digits[0:2] + " " + digits[2:5] + " " + digits[5:8] + " " + digits[8:11]
}
