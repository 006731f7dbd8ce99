package parser

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
)

var (
	containerPattern      = regexp.MustCompile(`(?i)\b([A-Z]{4}\d{7})\b`)
	containerLoosePattern = regexp.MustCompile(`(?i)\b([A-Z0-9]{4,12}[-_ ]?[0-9]{4,8})\b`)
	containerSeparators   = strings.NewReplacer(" ", "", "-", "", "_", "")

	sealLabelPattern = regexp.MustCompile(`(?i)\bSEAL\b(?:\s*(?:NUMBERS|NUMBER|NOS|NO)\b\.?)?[:#\-\s]*([A-Z0-9\-_/]{3,20})`)
	sealTokenPattern = regexp.MustCompile(`(?i)\b([A-Z]{2,4}[-_]?[A-Z0-9]{4,12})\b`)

	weightPattern = regexp.MustCompile(`(?i)([0-9]{1,3}(?:[0-9,.\s]{0,15})?)\s*(KGS|KG|KILOGRAMS?)`)
	digitPattern  = regexp.MustCompile(`[0-9]`)

	datePattern           = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4}|\d{4}/\d{2}/\d{2})`)
	shippedOnBoardPattern = regexp.MustCompile(`(?i)SHIPPED\s+ON\s+BOARD(?:\s+DATE)?[\s:.\-]*(\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4}|\d{4}/\d{2}/\d{2})`)
)

// maxFieldLength caps labelled field values, counted in runes
const maxFieldLength = 240

// ExtractContainers returns ISO 6346 valid container numbers in order of
// first occurrence. Numbers split by a single separator are joined before
// validation.
func ExtractContainers(text string) []string {
	type found struct {
		offset int
		value  string
	}
	var matches []found

	for _, loc := range containerPattern.FindAllStringSubmatchIndex(text, -1) {
		candidate := strings.ToUpper(text[loc[2]:loc[3]])
		if IsISO6346(candidate) {
			matches = append(matches, found{offset: loc[2], value: candidate})
		}
	}

	for _, loc := range containerLoosePattern.FindAllStringSubmatchIndex(text, -1) {
		candidate := strings.ToUpper(containerSeparators.Replace(text[loc[2]:loc[3]]))
		if len(candidate) == 11 && IsISO6346(candidate) {
			matches = append(matches, found{offset: loc[2], value: candidate})
		}
	}

	slices.SortStableFunc(matches, func(a, b found) int {
		return cmp.Compare(a.offset, b.offset)
	})

	containers := make([]string, 0, len(matches))
	for _, m := range matches {
		containers = append(containers, m.value)
	}
	return dedupeStrings(containers)
}

// ExtractSeals returns seal numbers: values written right after SEAL, plus
// seal-shaped tokens found in seal context. Seals must contain a digit.
// Valid container numbers and tokens carrying a BL label are never reported
// as seals.
func ExtractSeals(text string) []string {
	var seals []string

	for _, m := range sealLabelPattern.FindAllStringSubmatch(text, -1) {
		seal := strings.ToUpper(m[1])
		if isSealValue(seal) {
			seals = append(seals, seal)
		}
	}

	doc := NewDocument(text, defaultRules.HeaderFraction)
	analyzer := NewContextAnalyzer(defaultRules)
	for _, m := range sealTokenPattern.FindAllStringSubmatch(text, -1) {
		token := strings.ToUpper(m[1])
		if !isSealValue(token) || analyzer.HasExplicitBLLabelNear(doc, token) {
			continue
		}
		if analyzer.IsSealNumberContext(doc, token) {
			seals = append(seals, token)
		}
	}

	return dedupeStrings(seals)
}

func isSealValue(s string) bool {
	return hasDigit(s) && !IsISO6346(normalizeToken(s))
}

// ExtractWeight returns the first "<number> KG(S)" expression with its unit,
// or failing that the first line mentioning KG next to any digit.
func ExtractWeight(text string) (string, bool) {
	if m := weightPattern.FindString(text); m != "" {
		return strings.TrimSpace(strings.ReplaceAll(m, "\n", " ")), true
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(strings.ToUpper(line), "KG") && digitPattern.MatchString(line) {
			return strings.TrimSpace(line), true
		}
	}
	return "", false
}

// ExtractLabelledField returns the rest of the line after label, with
// leading separators and surrounding whitespace removed.
func ExtractLabelledField(text, label string) (string, bool) {
	if label == "" {
		return "", false
	}

	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(label) + `[\s#:.\-]*(.+)`)
	if err != nil {
		return "", false
	}

	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}

	value := strings.TrimSpace(m[1])
	if runes := []rune(value); len(runes) > maxFieldLength {
		value = string(runes[:maxFieldLength])
	}
	return value, value != ""
}

// ExtractLabelledFieldChain tries each label in turn and returns the first hit
func ExtractLabelledFieldChain(text string, labels ...string) (string, bool) {
	for _, label := range labels {
		if value, ok := ExtractLabelledField(text, label); ok {
			return value, true
		}
	}
	return "", false
}

// ExtractShippedOnBoardDate prefers a date written after "SHIPPED ON BOARD"
// and falls back to the first date anywhere in the text.
func ExtractShippedOnBoardDate(text string) (string, bool) {
	if m := shippedOnBoardPattern.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	if m := datePattern.FindString(text); m != "" {
		return m, true
	}
	return "", false
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
