package invoices

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	numberPrefix     = "INV"
	numberDateLayout = "20060102"
)

var numberPattern = regexp.MustCompile(`^INV-(\d{8})-(\d{4,})$`)

// FormatNumber derives the invoice number from the issue date and sale id:
// INV-{YYYYMMDD}-{sale id zero-padded to 4 digits}. The date is the UTC
// calendar day, the same basis issue_date is stored in.
func FormatNumber(issueDate time.Time, saleID int64) string {
	return fmt.Sprintf("%s-%s-%04d", numberPrefix, issueDate.UTC().Format(numberDateLayout), saleID)
}

// ParseNumber splits an invoice number into its date and sale id.
// ok is false for anything FormatNumber could not have produced.
func ParseNumber(number string) (issueDate time.Time, saleID int64, ok bool) {
	m := numberPattern.FindStringSubmatch(number)
	if m == nil {
		return time.Time{}, 0, false
	}

	issueDate, err := time.Parse(numberDateLayout, m[1])
	if err != nil {
		return time.Time{}, 0, false
	}

	saleID, err = strconv.ParseInt(m[2], 10, 64)
	if err != nil || saleID <= 0 {
		return time.Time{}, 0, false
	}
	if FormatNumber(issueDate, saleID) != number {
		// Rejects non-canonical padding such as INV-20240805-00042.
		return time.Time{}, 0, false
	}
	return issueDate, saleID, true
}
