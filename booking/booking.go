// Package booking derives typed booking data from raw spreadsheet records and summarises it into dashboard KPIs.
package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookingdash/dashtool/record"
)

// Column names as they appear in the booking spreadsheet.
const (
	ColTotals     = "totals"
	ColDate       = "date"
	ColAge        = "Age"
	ColRegion     = "Region"
	ColStatus     = "status"
	ColType       = "Corporate Or Self Pay"
	ColCorpOrSelf = "corp_or_self"

	unknown = "Unknown"
)

// Payment types, compared lower-cased.
const (
	PaymentCorporate     = "corporate"
	PaymentSelfPay       = "self pay"
	PaymentCorporateFlex = "corporate flex"
)

var notMoney = regexp.MustCompile(`[^\d.\-]`)

// moneyPrefix is the longest leading number, so "1.2.3" reads as 1.2 and "12-34" as 12.
var moneyPrefix = regexp.MustCompile(`^-?(\d+(\.\d+)?|\.\d+)`)

// Booking is one spreadsheet row with its derived fields.
type Booking struct {
	Raw record.Record `json:"-"`

	Revenue     decimal.Decimal `json:"revenue"`
	Date        time.Time       `json:"date"`
	Age         int             `json:"age"`
	Region      string          `json:"region"`
	Status      string          `json:"status"`
	Type        string          `json:"type"`
	PaymentType string          `json:"payment_type"`
}

// Enrich derives a Booking from a raw row. Missing or malformed values fall back to zero values or "Unknown"; it never
// fails.
func Enrich(r record.Record) Booking {
	b := Booking{
		Raw:     r,
		Revenue: revenueOf(r),
		Date:    dateOf(r),
		Age:     leadingInt(r, ColAge),
		Region:  textOr(r, ColRegion, unknown),
		Status:  textOr(r, ColStatus, unknown),
		Type:    textOr(r, ColType, unknown),
	}
	b.PaymentType = strings.ToLower(textOr(r, ColCorpOrSelf, b.Type))
	return b
}

// EnrichAll enriches every row.
func EnrichAll(rs []record.Record) []Booking {
	out := make([]Booking, len(rs))
	for i, r := range rs {
		out[i] = Enrich(r)
	}
	return out
}

// text returns the value under key as a string, or "" when absent, null or blank.
func text(r record.Record, key string) string {
	v, ok := r.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return strings.TrimSpace(s)
}

func textOr(r record.Record, key, fallback string) string {
	if s := text(r, key); s != "" {
		return s
	}
	return fallback
}

// revenueOf parses a money string such as "£1,543.38" by keeping only digits, dots and minus signs, then reading the
// leading number. Nothing numeric gives zero.
func revenueOf(r record.Record) decimal.Decimal {
	clean := moneyPrefix.FindString(notMoney.ReplaceAllString(text(r, ColTotals), ""))
	if clean == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// dateOf parses DD/MM/YYYY. Anything else, including impossible dates like 31/02/2025, yields the zero time.
func dateOf(r record.Record) time.Time {
	parts := strings.Split(text(r, ColDate), "/")
	if len(parts) != 3 {
		return time.Time{}
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}
		}
		nums[i] = n
	}
	day, month, year := nums[0], nums[1], nums[2]
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}
	}
	return t
}

// leadingInt reads the integer prefix of a value: 50, "50", "50 years" and 50.9 all give 50.
func leadingInt(r record.Record, key string) int {
	s := text(r, key)
	end := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
