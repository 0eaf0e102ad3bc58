package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"woo-analytics/models"
	"woo-analytics/utils"
)

// Analytics derives the report's rollups from cleaned orders and flattened
// line items.
type Analytics struct {
	logger  *utils.Logger
	schemes BucketSchemes
}

// NewAnalytics creates an Analytics service using the given bucket schemes.
func NewAnalytics(logger *utils.Logger, schemes BucketSchemes) *Analytics {
	return &Analytics{logger: logger, schemes: schemes}
}

// DailyRevenue groups orders by calendar date and sums their totals,
// ascending by date.
func (a *Analytics) DailyRevenue(orders []models.OrderRecord) []models.DailyRevenue {
	totals := make(map[time.Time]decimal.Decimal)
	for _, o := range orders {
		totals[o.OrderDate] = totals[o.OrderDate].Add(o.Total)
	}

	result := make([]models.DailyRevenue, 0, len(totals))
	for date, total := range totals {
		result = append(result, models.DailyRevenue{Date: date, Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result
}

// SpendingRanges bins orders into the price bands by order total. Every
// order falls into exactly one band; a total exactly on a boundary falls
// into the band starting there.
func (a *Analytics) SpendingRanges(orders []models.OrderRecord) []models.BucketRow {
	rows := emptyRows(a.schemes.Spending)
	for _, o := range orders {
		i := a.schemes.Spending.Index(o.Total.InexactFloat64())
		if i < 0 {
			continue
		}
		rows[i].Orders++
		rows[i].Total = rows[i].Total.Add(o.Total)
	}
	return rows
}

// AgeRanges bins orders into the age bands by the customer's age and sums
// order totals per band. Orders whose age is missing or non-numeric are
// excluded, so band counts can sum to less than the order count.
func (a *Analytics) AgeRanges(orders []models.OrderRecord) []models.BucketRow {
	rows := emptyRows(a.schemes.Age)
	for _, o := range orders {
		if !o.Age.Valid {
			continue
		}
		i := a.schemes.Age.Index(float64(o.Age.Int))
		if i < 0 {
			continue
		}
		rows[i].Orders++
		rows[i].Total = rows[i].Total.Add(o.Total)
	}
	return rows
}

// ProductRollup groups line items by exact product name, counting rows and
// summing line totals, sorted by product name.
func (a *Analytics) ProductRollup(items []models.LineItemRecord) []models.ProductRow {
	type acc struct {
		orders int
		total  decimal.Decimal
	}
	byName := make(map[string]*acc)
	for _, it := range items {
		entry, ok := byName[it.ProductName]
		if !ok {
			entry = &acc{}
			byName[it.ProductName] = entry
		}
		entry.orders++
		entry.total = entry.total.Add(it.ItemTotal)
	}

	result := make([]models.ProductRow, 0, len(byName))
	for name, entry := range byName {
		result = append(result, models.ProductRow{Name: name, Orders: entry.orders, Total: entry.total})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// CategoryRollup splits every ";"-delimited category tag into tokens and,
// for each unique token, counts and sums the rows whose category string
// contains it. An item tagged "Shoes;Accessories" contributes to both bands,
// so the sum over categories can exceed the grand total. That
// multi-membership is intentional, not a bug to fix.
func (a *Analytics) CategoryRollup(items []models.LineItemRecord) []models.CategoryRow {
	seen := make(map[string]struct{})
	var categories []string
	for _, it := range items {
		for _, token := range strings.Split(it.Category, ";") {
			if token == "" {
				continue
			}
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			categories = append(categories, token)
		}
	}
	sort.Strings(categories)

	result := make([]models.CategoryRow, 0, len(categories))
	for _, cat := range categories {
		row := models.CategoryRow{Name: cat}
		for _, it := range items {
			if strings.Contains(it.Category, cat) {
				row.Items++
				row.Total = row.Total.Add(it.ItemTotal)
			}
		}
		result = append(result, row)
	}
	return result
}

// Generate assembles all rollups into a Report. Run metadata (run id,
// period, status filter) is filled in by the caller.
func (a *Analytics) Generate(orders []models.OrderRecord, items []models.LineItemRecord) *models.Report {
	report := &models.Report{
		GeneratedAt:    time.Now(),
		Orders:         orders,
		Products:       items,
		Daily:          a.DailyRevenue(orders),
		SpendingRanges: a.SpendingRanges(orders),
		AgeRanges:      a.AgeRanges(orders),
		ByProduct:      a.ProductRollup(items),
		ByCategory:     a.CategoryRollup(items),
	}

	a.logger.Info("[analytics] Report ready: %d orders, %d product rows, %d days, %d products, %d categories",
		len(orders), len(items), len(report.Daily), len(report.ByProduct), len(report.ByCategory))
	return report
}

// Print renders the report on the terminal.
func (a *Analytics) Print(r *models.Report) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 WOOCOMMERCE ORDER ANALYTICS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	grand := decimal.Zero
	for _, o := range r.Orders {
		grand = grand.Add(o.Total)
	}
	fmt.Printf("\033[1;33m  Periodo\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Ordini dal %s al %s — stato: %s\n",
		r.PeriodStart.Format("02/01/2006"), r.PeriodEnd.Format("02/01/2006"), r.StatusFilter)
	fmt.Printf("  Ordini totali : \033[1m%d\033[0m\n", len(r.Orders))
	fmt.Printf("  Fatturato     : \033[1;32m€ %s\033[0m\n", grand.StringFixed(2))
	fmt.Println()

	// Daily revenue
	fmt.Printf("\033[1;33m  Fatturato giornaliero\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.Daily) == 0 {
		fmt.Printf("  Nessun dato\n")
	}
	for _, d := range r.Daily {
		fmt.Printf("  %s  \033[1;32m€ %10s\033[0m\n", d.Date.Format("02/01/2006"), d.Total.StringFixed(2))
	}
	fmt.Println()

	printBands("Analisi per fasce di prezzo", thin, r.SpendingRanges)
	printBands("Analisi per fasce di età", thin, r.AgeRanges)

	// Products
	fmt.Printf("\033[1;33m  Ordini e fatturato per prodotti\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, p := range r.ByProduct {
		fmt.Printf("  %-36s %4d  \033[1;32m€ %10s\033[0m\n",
			truncate(p.Name, 34), p.Orders, p.Total.StringFixed(2))
	}
	fmt.Println()

	// Categories
	fmt.Printf("\033[1;33m  Fatturato per categoria\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, c := range r.ByCategory {
		fmt.Printf("  %-36s %4d  \033[1;32m€ %10s\033[0m\n",
			truncate(c.Name, 34), c.Items, c.Total.StringFixed(2))
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func printBands(title, thin string, rows []models.BucketRow) {
	fmt.Printf("\033[1;33m  %s\033[0m\n", title)
	fmt.Printf("  %s\n", thin)
	for _, b := range rows {
		bar := strings.Repeat("█", b.Orders)
		fmt.Printf("  %-24s %s (%d — € %s)\n", b.Label, bar, b.Orders, b.Total.StringFixed(2))
	}
	fmt.Println()
}

func emptyRows(scheme BucketScheme) []models.BucketRow {
	rows := make([]models.BucketRow, len(scheme.Buckets))
	for i, b := range scheme.Buckets {
		rows[i].Label = b.Label
	}
	return rows
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
