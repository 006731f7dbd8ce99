package parser

import (
	"regexp"
	"strings"
)

var iso6346Shape = regexp.MustCompile(`^[A-Z]{4}\d{7}$`)

// iso6346LetterValues maps A..Z to their ISO 6346 equivalents: counting up
// from 10 and skipping every multiple of 11.
var iso6346LetterValues = func() [26]int {
	var values [26]int
	v := 10
	for i := range values {
		if v%11 == 0 {
			v++
		}
		values[i] = v
		v++
	}
	return values
}()

// ISO6346CheckDigit computes the check digit for a 10 character owner code,
// category and serial number (4 letters + 6 digits).
func ISO6346CheckDigit(body string) (int, bool) {
	body = strings.ToUpper(body)
	if len(body) != 10 || !iso6346Shape.MatchString(body+"0") {
		return 0, false
	}

	total := 0
	for i := 0; i < len(body); i++ {
		ch := body[i]
		var value int
		if ch >= 'A' && ch <= 'Z' {
			value = iso6346LetterValues[ch-'A']
		} else {
			value = int(ch - '0')
		}
		total += value << i
	}

	remainder := total % 11
	if remainder == 10 {
		return 0, true
	}
	return remainder, true
}

// IsISO6346 reports whether token is a container number (4 letters and
// 7 digits) with a correct check digit.
func IsISO6346(token string) bool {
	token = strings.ToUpper(token)
	if len(token) != 11 || !iso6346Shape.MatchString(token) {
		return false
	}

	expected, ok := ISO6346CheckDigit(token[:10])
	if !ok {
		return false
	}
	return int(token[10]-'0') == expected
}
