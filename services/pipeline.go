package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"woo-analytics/fetcher/woocommerce"
	"woo-analytics/models"
	"woo-analytics/utils"
)

// Validation and empty-result conditions. All of them are terminal for the
// current run; the caller re-triggers with corrected inputs.
var (
	ErrEmptySource    = errors.New("pipeline: no data source configured")
	ErrEndBeforeStart = errors.New("pipeline: end date precedes start date")
	ErrNoOrders       = errors.New("pipeline: no orders found for the selected period")
)

// OrderFetcher is the acquisition stage seen by the pipeline.
type OrderFetcher interface {
	FetchOrders(start, end time.Time, filter string) ([]models.RawOrder, error)
}

// Pipeline runs one fetch → clean → aggregate cycle and produces a Report.
// There is no partial output: any failure aborts the whole run.
type Pipeline struct {
	source    string
	fetcher   OrderFetcher
	cleaner   *Cleaner
	analytics *Analytics
	logger    *utils.Logger
}

// NewPipeline wires the three stages together. The source URL is kept only
// for validation; the fetcher already targets it.
func NewPipeline(source string, fetcher OrderFetcher, cleaner *Cleaner, analytics *Analytics, logger *utils.Logger) *Pipeline {
	return &Pipeline{
		source:    source,
		fetcher:   fetcher,
		cleaner:   cleaner,
		analytics: analytics,
		logger:    logger,
	}
}

// Run executes one full cycle for the given period and status selection.
// Input validation happens before any network call.
func (p *Pipeline) Run(start, end time.Time, status string) (*models.Report, error) {
	if p.source == "" {
		return nil, ErrEmptySource
	}
	if end.Before(start) {
		return nil, ErrEndBeforeStart
	}
	filter, err := woocommerce.StatusFilter(status)
	if err != nil {
		return nil, err
	}

	raw, err := p.fetcher.FetchOrders(start, end, filter)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrNoOrders
	}

	orders, err := p.cleaner.Clean(raw)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	items, err := p.cleaner.Products(orders)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	report := p.analytics.Generate(orders, items)
	report.RunID = uuid.NewString()
	report.PeriodStart = start
	report.PeriodEnd = end
	report.StatusFilter = displayStatus(filter)

	p.logger.Info("[pipeline] Run %s complete (%d orders)", report.RunID, len(orders))
	return report, nil
}

// displayStatus maps an endpoint filter value back to its display name.
func displayStatus(filter string) string {
	switch filter {
	case "processing":
		return "Eseguiti"
	case "canceled":
		return "Cancellati"
	}
	return "Tutti"
}
