// Package classifier decides what kind of shipping document a hint or text describes.
package classifier

import (
	"regexp"
	"strings"
)

// DocumentType is the coarse class of a shipping document
type DocumentType string

const (
	TypeBL          DocumentType = "BL"
	TypeIM8         DocumentType = "IM8"
	TypeInvoice     DocumentType = "INVOICE"
	TypePackingList DocumentType = "PACKING_LIST"
	TypeUnknown     DocumentType = "UNKNOWN"
)

// blHints are the upload hints that mark a document as a bill of lading
var blHints = map[string]bool{
	"bill_of_lading": true,
	"bill-of-lading": true,
	"bill of lading": true,
	"bl":             true,
	"b/l":            true,
	"billoflading":   true,
}

// directBLHints skip classification entirely
var directBLHints = map[string]bool{
	"bill_of_lading": true,
	"bill-of-lading": true,
	"bill of lading": true,
	"bl":             true,
}

var hintAliases = map[string]DocumentType{
	"im8":                TypeIM8,
	"im-8":               TypeIM8,
	"import_permit":      TypeIM8,
	"invoice":            TypeInvoice,
	"commercial_invoice": TypeInvoice,
	"packing_list":       TypePackingList,
	"packing-list":       TypePackingList,
	"packing list":       TypePackingList,
}

// keywordRule maps text keywords to a type; rules are checked in order
type keywordRule struct {
	docType  DocumentType
	keywords []string
}

var keywordRules = []keywordRule{
	{docType: TypeBL, keywords: []string{"BILL OF LADING", "BILLOFLADING", "B/L NO", "OCEAN BILL", "HOUSE BILL", "MASTER BILL"}},
	{docType: TypeIM8, keywords: []string{"IM8", "IM 8", "IMPORT DECLARATION"}},
	{docType: TypeInvoice, keywords: []string{"COMMERCIAL INVOICE", "INVOICE NO", "INVOICE NUMBER"}},
	{docType: TypePackingList, keywords: []string{"PACKING LIST", "PACKINGLIST"}},
}

var blTextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`bill\s*of\s*lading`),
	regexp.MustCompile(`billoflading`),
	regexp.MustCompile(`b\s*[/|]?\s*l`),
	regexp.MustCompile(`bl\s*(no|number)?`),
	regexp.MustCompile(`blno`),
	regexp.MustCompile(`ocean\s*bill`),
	regexp.MustCompile(`oceanbill`),
	regexp.MustCompile(`house\s*bill`),
	regexp.MustCompile(`housebill`),
	regexp.MustCompile(`master\s*bill`),
	regexp.MustCompile(`masterbill`),
}

func cleanHint(hint string) string {
	return strings.ToLower(strings.TrimSpace(hint))
}

// IsBLHint reports whether hint names a bill of lading
func IsBLHint(hint string) bool {
	return blHints[cleanHint(hint)]
}

// IsDirectBLHint reports hints that fix the type to BL without looking at text
func IsDirectBLHint(hint string) bool {
	return directBLHints[cleanHint(hint)]
}

// Classify resolves the document type from the hint first, then from
// keywords in text.
func Classify(hint, text string) DocumentType {
	h := cleanHint(hint)
	if blHints[h] {
		return TypeBL
	}
	if t, ok := hintAliases[h]; ok {
		return t
	}

	upper := strings.ToUpper(text)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(upper, kw) {
				return rule.docType
			}
		}
	}
	return TypeUnknown
}

// LooksLikeBL is a permissive keyword test for bill of lading vocabulary.
// It matches loosely (any "b l" pair counts) and is meant as a hint only.
func LooksLikeBL(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, re := range blTextPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}
