package parser

import (
	"regexp"
	"strconv"
)

var yearPattern = regexp.MustCompile(`^(19|20)\d{2}$`)

// IsStructurallyInvalid reports whether token can never be a BL number under
// the default rules.
func IsStructurallyInvalid(token string) bool {
	return defaultRules.IsStructurallyInvalid(token)
}

// IsStructurallyInvalid rejects tokens outside the length bounds, tokens on
// the non-BL word list, and tokens missing either letters or digits.
func (r Rules) IsStructurallyInvalid(token string) bool {
	if len(token) < r.MinLength || len(token) > r.MaxLength {
		return true
	}
	for _, word := range r.NonBLWords {
		if token == word {
			return true
		}
	}
	return !hasLetter(token) || !hasDigit(token)
}

// IsFalsePositive flags tokens that look like years, dates, or long plain
// numbers rather than document references.
func IsFalsePositive(token string) bool {
	if len(token) < 6 {
		return true
	}
	if yearPattern.MatchString(token) {
		return true
	}
	if !isAllDigits(token) {
		return false
	}

	if len(token) == 6 {
		head, _ := strconv.Atoi(token[:2])
		tail, _ := strconv.Atoi(token[4:])
		if head <= 31 || tail <= 31 {
			return true
		}
	}
	return len(token) > 15
}

// gate is an absolute rejection stage
type gate struct {
	name   string
	reject func(string) bool
}

func (r Rules) gates() []gate {
	return []gate{
		{name: "structurally_invalid", reject: r.IsStructurallyInvalid},
		{name: "false_positive", reject: IsFalsePositive},
	}
}
