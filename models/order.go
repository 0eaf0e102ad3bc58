package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawOrder is one order exactly as returned by the WooCommerce export
// endpoint: every scalar arrives as a string. This is the pre-cleaning shape.
type RawOrder struct {
	OrderID     string      `json:"OrderID"`
	OrderDate   string      `json:"OrderDate"`
	Subtotal    string      `json:"OrderSubTotal"`
	Coupon      string      `json:"Coupon"`
	Discount    string      `json:"TotalDiscount"`
	Total       string      `json:"OrderTotal"`
	Gender      string      `json:"Gender"`
	BirthYear   string      `json:"AnnoNascita"`
	Age         string      `json:"Age"`
	Province    string      `json:"Provincia"`
	Email       string      `json:"Email"`
	OrderStatus string      `json:"OrderStatus"`
	OrderItems  RawItemList `json:"OrderItems"`
}

// RawItemList mirrors the export's nesting: the item array sits under an
// "Item" key inside the OrderItems object.
type RawItemList struct {
	Item []RawItem `json:"Item"`
}

// RawItem is one product line inside a raw order.
type RawItem struct {
	ProductName string `json:"ProductName"`
	Quantity    string `json:"Quantity"`
	ItemCost    string `json:"ItemCost"`
	ItemTotal   string `json:"ItemTotal"`
	Category    string `json:"Category"`
}

// OrdersPayload is the top-level response body of the export endpoint.
type OrdersPayload struct {
	Orders []RawOrder `json:"Orders"`
}

// OptionalInt is a demographic value under permissive coercion: it may hold a
// parsed integer, be missing entirely, or preserve the original non-numeric
// text. Aggregation only looks at rows where Valid is true.
type OptionalInt struct {
	Valid bool   `json:"valid"`
	Int   int    `json:"value,omitempty"`
	Raw   string `json:"raw,omitempty"`
}

// SomeInt returns a present OptionalInt.
func SomeInt(v int) OptionalInt { return OptionalInt{Valid: true, Int: v} }

// MissingInt is the missing-value marker.
var MissingInt = OptionalInt{}

// OrderRecord is the cleaned, typed row for one order. The raw email and raw
// timestamp fields are dropped during cleaning and never appear here.
type OrderRecord struct {
	OrderID   int             `json:"order_id"`
	OrderDate time.Time       `json:"order_date"`
	OrderTime string          `json:"order_time"`
	Status    string          `json:"status"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Coupon    string          `json:"coupon"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
	Gender    string          `json:"gender"`
	BirthYear OptionalInt     `json:"birth_year"`
	Age       OptionalInt     `json:"age"`
	Province  string          `json:"province"`

	// Items stays nested on the order row; flattening into LineItemRecords
	// is a separate step.
	Items []RawItem `json:"items"`
}

// LineItemRecord is one flattened product line joined with its parent order.
type LineItemRecord struct {
	ProductName string          `json:"product_name"`
	Quantity    float64         `json:"quantity"`
	ItemCost    decimal.Decimal `json:"item_cost"`
	ItemTotal   decimal.Decimal `json:"item_total"`
	Category    string          `json:"category"`
	OrderID     int             `json:"order_id"`
	OrderDate   time.Time       `json:"order_date"`
	OrderStatus string          `json:"order_status"`
}

// DailyRevenue is one row of the per-day rollup.
type DailyRevenue struct {
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// BucketRow is one band of a bucketed rollup (spending or age ranges).
type BucketRow struct {
	Label  string          `json:"label"`
	Orders int             `json:"orders"`
	Total  decimal.Decimal `json:"total"`
}

// ProductRow is one row of the per-product rollup.
type ProductRow struct {
	Name   string          `json:"product"`
	Orders int             `json:"orders"`
	Total  decimal.Decimal `json:"total"`
}

// CategoryRow is one row of the per-category rollup. Items tagged with
// several ";"-separated categories count under each of them, so category
// totals can exceed the grand total.
type CategoryRow struct {
	Name  string          `json:"category"`
	Items int             `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Report is the full output of one pipeline run.
type Report struct {
	RunID        string    `json:"run_id"`
	PeriodStart  time.Time `json:"period_start"`
	PeriodEnd    time.Time `json:"period_end"`
	StatusFilter string    `json:"status_filter"`
	GeneratedAt  time.Time `json:"generated_at"`

	Orders   []OrderRecord    `json:"orders"`
	Products []LineItemRecord `json:"products"`

	Daily          []DailyRevenue `json:"daily_revenue"`
	SpendingRanges []BucketRow    `json:"spending_ranges"`
	AgeRanges      []BucketRow    `json:"age_ranges"`
	ByProduct      []ProductRow   `json:"by_product"`
	ByCategory     []CategoryRow  `json:"by_category"`
}
