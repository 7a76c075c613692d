package pricing

import (
	"regexp"
	"strconv"
	"strings"
)

const discountPrefix = "Discount Applied: Rs. "

// discountPattern matches a previously appended discount fragment,
// tolerant of decimal amounts.
var discountPattern = regexp.MustCompile(`Discount Applied: Rs\. \d+(\.\d+)?`)

// AnnotateDiscount returns the remark with exactly one discount fragment
// when discount > 0 and none otherwise. Re-annotating an already annotated
// remark strips the old fragment first, so repeated update cycles never
// accumulate duplicates.
func AnnotateDiscount(remark string, discount float64) string {
	base := StripDiscount(remark)

	if discount <= 0 {
		return base
	}

	fragment := discountPrefix + formatAmount(discount)
	if base == "" {
		return fragment
	}
	return base + " | " + fragment
}

// StripDiscount removes any discount fragment and its separator from the remark.
func StripDiscount(remark string) string {
	s, _, _ := strings.Cut(remark, " | Discount Applied:")
	s = discountPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
