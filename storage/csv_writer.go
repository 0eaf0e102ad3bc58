package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"woo-analytics/models"
)

// csvFile wraps one CSV output file. It is safe for concurrent use.
type csvFile struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// newCSVFile creates (or truncates) the file at the given path and writes the
// header row. Intermediate directories are created automatically.
func newCSVFile(path string, header []string) (*csvFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &csvFile{file: f, writer: w}, nil
}

func (c *csvFile) writeRows(rows [][]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, row := range rows {
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *csvFile) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

// OrdersCSV exports the cleaned orders table (the nested items stay out,
// exactly like the on-page orders dataset).
type OrdersCSV struct {
	*csvFile
}

// NewOrdersCSV creates the orders export file with its header.
func NewOrdersCSV(path string) (*OrdersCSV, error) {
	f, err := newCSVFile(path, []string{
		"order_id", "order_date", "order_time", "status", "subtotal", "coupon",
		"discount", "total", "gender", "birth_year", "age", "province",
	})
	if err != nil {
		return nil, err
	}
	return &OrdersCSV{csvFile: f}, nil
}

// WriteOrders appends one row per cleaned order.
func (c *OrdersCSV) WriteOrders(orders []models.OrderRecord) error {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			strconv.Itoa(o.OrderID),
			o.OrderDate.Format("2006-01-02"),
			o.OrderTime,
			o.Status,
			o.Subtotal.StringFixed(2),
			o.Coupon,
			o.Discount.StringFixed(2),
			o.Total.StringFixed(2),
			o.Gender,
			optionalInt(o.BirthYear),
			optionalInt(o.Age),
			o.Province,
		})
	}
	return c.writeRows(rows)
}

// ProductsCSV exports the flattened line-item table.
type ProductsCSV struct {
	*csvFile
}

// NewProductsCSV creates the products export file with its header.
func NewProductsCSV(path string) (*ProductsCSV, error) {
	f, err := newCSVFile(path, []string{
		"product_name", "quantity", "item_cost", "item_total", "category",
		"order_id", "order_date", "order_status",
	})
	if err != nil {
		return nil, err
	}
	return &ProductsCSV{csvFile: f}, nil
}

// WriteProducts appends one row per line item.
func (c *ProductsCSV) WriteProducts(items []models.LineItemRecord) error {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			it.ProductName,
			strconv.FormatFloat(it.Quantity, 'f', -1, 64),
			it.ItemCost.StringFixed(2),
			it.ItemTotal.StringFixed(2),
			it.Category,
			strconv.Itoa(it.OrderID),
			it.OrderDate.Format("2006-01-02"),
			it.OrderStatus,
		})
	}
	return c.writeRows(rows)
}

// optionalInt renders a permissive demographic value: the parsed number, the
// preserved raw text, or empty when missing.
func optionalInt(v models.OptionalInt) string {
	if v.Valid {
		return strconv.Itoa(v.Int)
	}
	return v.Raw
}
