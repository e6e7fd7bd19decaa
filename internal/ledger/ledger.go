// Package ledger computes paid totals, balances and revenue over a snapshot
// of transactions. A Ledger never mutates the slice it was built from and is
// safe for concurrent use.
package ledger

import (
	"time"

	"github.com/diewo77/go-gestion/internal/models"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// MonthLabels are the short French month names used by the revenue chart.
var MonthLabels = [12]string{"Jan", "Fév", "Mar", "Avr", "Mai", "Juin", "Juil", "Aoû", "Sep", "Oct", "Nov", "Déc"}

type dated struct {
	year   int
	month  time.Month
	amount decimal.Decimal
}

// Ledger aggregates one transaction snapshot.
type Ledger struct {
	txs   []models.Transaction
	dated []dated
}

// New builds a ledger over txs. Transactions whose date cannot be parsed
// are logged once here and left out of every period aggregation; they
// still count toward project paid totals.
func New(txs []models.Transaction, log zerolog.Logger) *Ledger {
	l := &Ledger{txs: txs, dated: make([]dated, 0, len(txs))}
	for _, tx := range txs {
		d, err := models.ParseDate(tx.Date)
		if err != nil {
			log.Warn().Str("transaction", tx.StructuredID).Str("date", tx.Date).Msg("unparsable transaction date, excluded from revenue")
			continue
		}
		l.dated = append(l.dated, dated{year: d.Year(), month: d.Month(), amount: tx.AmountOrZero()})
	}
	return l
}

// PaidTotal sums the amounts recorded for projectID.
func (l *Ledger) PaidTotal(projectID string) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range l.txs {
		if tx.ProjectID == projectID {
			total = total.Add(tx.AmountOrZero())
		}
	}
	return total
}

// Balance is the project's cost minus what was paid. It goes negative on
// overpayment.
func (l *Ledger) Balance(p models.Project) decimal.Decimal {
	return p.Cost.Sub(l.PaidTotal(p.ID))
}

// FilterProject returns the transactions of projectID without building a
// ledger, so other projects' rows are never looked at.
func FilterProject(txs []models.Transaction, projectID string) []models.Transaction {
	var out []models.Transaction
	for _, tx := range txs {
		if tx.ProjectID == projectID {
			out = append(out, tx)
		}
	}
	return out
}

// ForProject returns the transactions recorded for projectID, in snapshot
// order.
func (l *Ledger) ForProject(projectID string) []models.Transaction {
	return FilterProject(l.txs, projectID)
}

// Revenue sums transactions dated in the given UTC month.
func (l *Ledger) Revenue(year int, month time.Month) decimal.Decimal {
	total := decimal.Zero
	for _, d := range l.dated {
		if d.year == year && d.month == month {
			total = total.Add(d.amount)
		}
	}
	return total
}

// YearRevenue sums transactions dated in the given UTC year.
func (l *Ledger) YearRevenue(year int) decimal.Decimal {
	total := decimal.Zero
	for _, d := range l.dated {
		if d.year == year {
			total = total.Add(d.amount)
		}
	}
	return total
}

// MonthlySeries returns the revenue of each month of year; index 0 is
// January.
func (l *Ledger) MonthlySeries(year int) [12]decimal.Decimal {
	var series [12]decimal.Decimal
	for i := range series {
		series[i] = decimal.Zero
	}
	for _, d := range l.dated {
		if d.year == year {
			series[d.month-1] = series[d.month-1].Add(d.amount)
		}
	}
	return series
}

// Summary is the dashboard view of a snapshot.
type Summary struct {
	Projects      int                 `json:"projects"`
	Month         string              `json:"month"`
	MonthRevenue  decimal.Decimal     `json:"month_revenue"`
	Year          int                 `json:"year"`
	YearRevenue   decimal.Decimal     `json:"year_revenue"`
	ChartYear     int                 `json:"chart_year"`
	MonthlySeries [12]decimal.Decimal `json:"monthly_series"`
	MonthLabels   [12]string          `json:"month_labels"`
}

// Summarize reports the revenue of the UTC month and year containing now
// and the monthly series of chartYear. A zero chartYear uses now's year.
func (l *Ledger) Summarize(now time.Time, chartYear, projects int) Summary {
	now = now.UTC()
	if chartYear == 0 {
		chartYear = now.Year()
	}
	return Summary{
		Projects:      projects,
		Month:         MonthLabels[now.Month()-1],
		MonthRevenue:  l.Revenue(now.Year(), now.Month()),
		Year:          now.Year(),
		YearRevenue:   l.YearRevenue(now.Year()),
		ChartYear:     chartYear,
		MonthlySeries: l.MonthlySeries(chartYear),
		MonthLabels:   MonthLabels,
	}
}
