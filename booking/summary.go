package booking

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// topN caps the region rankings.
const topN = 10

// Count is a labelled booking count.
type Count struct {
	Name     string `json:"name"`
	Bookings int    `json:"bookings"`
}

// Amount is a labelled revenue total.
type Amount struct {
	Name    string          `json:"name"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Summary holds the dashboard KPIs. Revenue fields are pointers/slices so that a client copy can omit them entirely.
type Summary struct {
	Bookings      int `json:"bookings"`
	Locations     int `json:"locations"`
	Corporate     int `json:"corporate"`
	SelfPay       int `json:"self_pay"`
	CorporateFlex int `json:"corporate_flex"`

	Revenue         *decimal.Decimal `json:"revenue,omitempty"`
	AverageRevenue  *decimal.Decimal `json:"average_revenue,omitempty"`
	RevenueByRegion []Amount         `json:"revenue_by_region,omitempty"`

	// Daily is sorted by date (YYYY-MM-DD); rows without a valid date are not counted.
	Daily []Count `json:"daily"`

	// Statuses and Types keep first-seen order.
	Statuses []Count `json:"statuses"`
	Types    []Count `json:"types"`

	// TopRegions is ordered by bookings, descending, ties in first-seen order.
	TopRegions []Count `json:"top_regions"`
}

// tally counts occurrences while remembering first-seen order.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(name string) {
	if _, ok := t.counts[name]; !ok {
		t.order = append(t.order, name)
	}
	t.counts[name]++
}

func (t *tally) list() []Count {
	out := make([]Count, len(t.order))
	for i, name := range t.order {
		out[i] = Count{Name: name, Bookings: t.counts[name]}
	}
	return out
}

// Summarize computes the KPIs over all bookings.
func Summarize(bookings []Booking) Summary {
	s := Summary{Bookings: len(bookings)}

	total := decimal.Zero
	daily, statuses, types, regions := newTally(), newTally(), newTally(), newTally()
	revByRegion := make(map[string]decimal.Decimal)

	for _, b := range bookings {
		total = total.Add(b.Revenue)

		switch b.PaymentType {
		case PaymentCorporate:
			s.Corporate++
		case PaymentSelfPay:
			s.SelfPay++
		case PaymentCorporateFlex:
			s.CorporateFlex++
		}

		if !b.Date.IsZero() {
			daily.add(b.Date.Format("2006-01-02"))
		}
		statuses.add(b.Status)
		types.add(b.Type)
		regions.add(b.Region)
		revByRegion[b.Region] = revByRegion[b.Region].Add(b.Revenue)
	}

	avg := decimal.Zero
	if s.Bookings > 0 {
		avg = total.Div(decimal.NewFromInt(int64(s.Bookings)))
	}
	s.Revenue = &total
	s.AverageRevenue = &avg
	s.Locations = len(regions.order)

	s.Daily = daily.list()
	sort.Slice(s.Daily, func(i, j int) bool { return s.Daily[i].Name < s.Daily[j].Name })

	s.Statuses = statuses.list()
	s.Types = types.list()

	s.TopRegions = regions.list()
	sort.SliceStable(s.TopRegions, func(i, j int) bool { return s.TopRegions[i].Bookings > s.TopRegions[j].Bookings })
	if len(s.TopRegions) > topN {
		s.TopRegions = s.TopRegions[:topN]
	}

	s.RevenueByRegion = make([]Amount, len(regions.order))
	for i, name := range regions.order {
		s.RevenueByRegion[i] = Amount{Name: name, Revenue: revByRegion[name]}
	}
	sort.SliceStable(s.RevenueByRegion, func(i, j int) bool {
		return s.RevenueByRegion[i].Revenue.GreaterThan(s.RevenueByRegion[j].Revenue)
	})
	if len(s.RevenueByRegion) > topN {
		s.RevenueByRegion = s.RevenueByRegion[:topN]
	}

	return s
}

// Client returns a copy of the summary with every financial figure removed.
func (s Summary) Client() Summary {
	s.Revenue = nil
	s.AverageRevenue = nil
	s.RevenueByRegion = nil
	return s
}

// HasFinancials reports whether any revenue figure is present.
func (s Summary) HasFinancials() bool {
	return s.Revenue != nil || s.AverageRevenue != nil || len(s.RevenueByRegion) > 0
}

// WriteText renders the summary as aligned text.
func (s Summary) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Bookings\t%s\n", humanize.Comma(int64(s.Bookings)))
	if s.Revenue != nil {
		fmt.Fprintf(tw, "Revenue\t%s\n", money(*s.Revenue))
	}
	if s.AverageRevenue != nil {
		fmt.Fprintf(tw, "Average revenue\t%s\n", money(*s.AverageRevenue))
	}
	fmt.Fprintf(tw, "Locations\t%s\n", humanize.Comma(int64(s.Locations)))
	fmt.Fprintf(tw, "Corporate\t%s\n", humanize.Comma(int64(s.Corporate)))
	fmt.Fprintf(tw, "Self pay\t%s\n", humanize.Comma(int64(s.SelfPay)))
	fmt.Fprintf(tw, "Corporate flex\t%s\n", humanize.Comma(int64(s.CorporateFlex)))

	writeCounts(tw, "Status", s.Statuses)
	writeCounts(tw, "Type", s.Types)
	writeCounts(tw, "Region", s.TopRegions)

	if len(s.RevenueByRegion) > 0 {
		fmt.Fprintf(tw, "\nRevenue by region\t\n")
		for _, a := range s.RevenueByRegion {
			fmt.Fprintf(tw, "  %s\t%s\n", a.Name, money(a.Revenue))
		}
	}

	return tw.Flush()
}

func writeCounts(w io.Writer, title string, counts []Count) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\t\n", title)
	for _, c := range counts {
		fmt.Fprintf(w, "  %s\t%s\n", c.Name, humanize.Comma(int64(c.Bookings)))
	}
}

func money(d decimal.Decimal) string {
	return "£" + humanize.FormatFloat("#,###.##", d.Round(2).InexactFloat64())
}
