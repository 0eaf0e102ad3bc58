package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"woo-analytics/models"
	"woo-analytics/utils"
)

// timestampLayouts are tried in order when splitting the raw order timestamp.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// missingSentinel marks an absent value in the export feed.
const missingSentinel = "-"

// Cleaner transforms RawOrders into typed OrderRecords and flattens their
// line items. Identity and monetary fields use strict coercion: one bad value
// fails the whole run. Demographic fields are permissive and keep whatever
// text they arrived with.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean converts raw orders into OrderRecords, one per input and in input
// order. The raw email and raw timestamp never survive into the output.
func (c *Cleaner) Clean(raw []models.RawOrder) ([]models.OrderRecord, error) {
	result := make([]models.OrderRecord, 0, len(raw))

	for i, r := range raw {
		id, err := strconv.Atoi(strings.TrimSpace(r.OrderID))
		if err != nil {
			return nil, fmt.Errorf("cleaner: record %d: invalid order id %q", i, r.OrderID)
		}

		ts, err := parseTimestamp(r.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("cleaner: order %d: %w", id, err)
		}

		subtotal, err := parseAmount("subtotal", r.Subtotal)
		if err != nil {
			return nil, fmt.Errorf("cleaner: order %d: %w", id, err)
		}
		discount, err := parseAmount("discount", r.Discount)
		if err != nil {
			return nil, fmt.Errorf("cleaner: order %d: %w", id, err)
		}
		total, err := parseAmount("total", r.Total)
		if err != nil {
			return nil, fmt.Errorf("cleaner: order %d: %w", id, err)
		}

		result = append(result, models.OrderRecord{
			OrderID:   id,
			OrderDate: ts.Truncate(24 * time.Hour),
			OrderTime: ts.Format("15:04:05"),
			Status:    scrubSentinel(r.OrderStatus),
			Subtotal:  subtotal,
			Coupon:    scrubSentinel(r.Coupon),
			Discount:  discount,
			Total:     total,
			Gender:    scrubSentinel(r.Gender),
			BirthYear: parseOptionalInt(r.BirthYear),
			Age:       parseOptionalInt(r.Age),
			Province:  scrubSentinel(r.Province),
			Items:     r.OrderItems.Item,
		})
	}

	c.logger.Info("[cleaner] Cleaned %d orders", len(result))
	return result, nil
}

// Products flattens the nested line items of cleaned orders into one row per
// item per order, joining the parent order's id, date and status onto each.
// The output length equals the sum of item-list lengths across all orders.
func (c *Cleaner) Products(orders []models.OrderRecord) ([]models.LineItemRecord, error) {
	title := cases.Title(language.Italian)

	var result []models.LineItemRecord
	for _, o := range orders {
		for _, item := range o.Items {
			qty, err := strconv.ParseFloat(strings.TrimSpace(item.Quantity), 64)
			if err != nil {
				return nil, fmt.Errorf("cleaner: order %d: invalid quantity %q for %q",
					o.OrderID, item.Quantity, item.ProductName)
			}
			cost, err := parseAmount("item cost", item.ItemCost)
			if err != nil {
				return nil, fmt.Errorf("cleaner: order %d: %w", o.OrderID, err)
			}
			lineTotal, err := parseAmount("item total", item.ItemTotal)
			if err != nil {
				return nil, fmt.Errorf("cleaner: order %d: %w", o.OrderID, err)
			}

			result = append(result, models.LineItemRecord{
				ProductName: item.ProductName,
				Quantity:    qty,
				ItemCost:    cost,
				ItemTotal:   lineTotal,
				Category:    title.String(strings.ToLower(item.Category)),
				OrderID:     o.OrderID,
				OrderDate:   o.OrderDate,
				OrderStatus: o.Status,
			})
		}
	}

	c.logger.Info("[cleaner] Flattened %d orders into %d product rows", len(orders), len(result))
	return result, nil
}

// parseTimestamp splits a raw order timestamp into a single time value; the
// caller separates date and time-of-day.
func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid order timestamp %q", raw)
}

// parseAmount applies strict monetary coercion.
func parseAmount(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", field, raw)
	}
	return d, nil
}

// parseOptionalInt applies permissive coercion: the sentinel becomes the
// missing marker, unparseable text is preserved as-is.
func parseOptionalInt(raw string) models.OptionalInt {
	s := strings.TrimSpace(raw)
	if s == "" || s == missingSentinel {
		return models.MissingInt
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return models.OptionalInt{Raw: s}
	}
	return models.SomeInt(n)
}

func scrubSentinel(s string) string {
	if strings.TrimSpace(s) == missingSentinel {
		return ""
	}
	return s
}
