package renderer

import (
	"github.com/etnz/tradelog"
)

// YearReport is the data of a year ledger report.
type YearReport struct {
	Year     int        `json:"year"`
	Currency string     `json:"currency"`
	Policy   string     `json:"policy"`
	Months   []MonthRow `json:"months"`
}

// MonthRow is the capital record of a month and its annualized returns, one per
// tradelog.Windows.
type MonthRow struct {
	tradelog.MonthlyCapitalRecord
	Returns []tradelog.RollingReturn `json:"returns"`
}

// NewYearReport computes the report of year.
func NewYearReport(l *tradelog.Ledger, year int) *YearReport {
	records := l.Year(year)
	returns := tradelog.NewReturns(l)
	r := &YearReport{
		Year:     year,
		Currency: l.Currency(),
		Policy:   l.Policy().String(),
		Months:   make([]MonthRow, 0, len(records)),
	}
	for m, record := range records {
		r.Months = append(r.Months, MonthRow{
			MonthlyCapitalRecord: record,
			Returns:              returns.For(records, year, m),
		})
	}
	return r
}

// Windows returns the column names of the returns table.
func (r *YearReport) Windows() []tradelog.Window { return tradelog.Windows }

var yearPartials = map[string]string{
	"year_title":   "year_title.md",
	"year_capital": "year_capital.md",
	"year_trades":  "year_trades.md",
	"year_returns": "year_returns.md",
}

// YearMarkdown renders the full year report.
func YearMarkdown(r *YearReport) string {
	return renderTemplate("year", "year.md", yearPartials, r)
}

// ReturnsMarkdown renders only the title and the returns of the year.
func ReturnsMarkdown(r *YearReport) string {
	return renderTemplate("returns", "returns.md", yearPartials, r)
}
