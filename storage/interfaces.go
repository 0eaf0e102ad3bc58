package storage

import "woo-analytics/models"

// OrdersWriter is the interface any orders-table export must satisfy.
type OrdersWriter interface {
	WriteOrders(orders []models.OrderRecord) error
	Close() error
}

// ProductsWriter is the interface for exporting the flattened product rows.
type ProductsWriter interface {
	WriteProducts(items []models.LineItemRecord) error
	Close() error
}

// ReportArchiver persists per-run report summaries.
type ReportArchiver interface {
	Archive(report *models.Report) error
	Close() error
}
