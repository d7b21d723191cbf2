package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

// productNamespace derives stable ids for rows that carry none, so
// re-importing the same file updates rather than duplicates.
var productNamespace = uuid.MustParse("8f2b8a52-6a43-4c1e-9f55-0d7f6f1c9e21")

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog exports and inserts/updates products. Columns:
// id, name, description, type, platform, category, price, stock,
// images.url. A row with an empty name and an image url adds that image to
// the product above it.
type CSVImporter struct {
	reader *csv.Reader
	repo   ProductWriter
	logger *zap.Logger
}

func NewCSVImporter(r io.Reader, repo ProductWriter, logger *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVImporter{reader: csvr, repo: repo, logger: logger}
}

type csvRow struct {
	line      int
	ID        string
	Name      string
	Desc      string
	Type      string
	Platform  string
	Category  string
	Price     string
	Stock     string
	ImageURLs []string
}

// Run parses CSV rows and upserts one product per named row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, errors.New("read headers: name column is required")
	}

	var (
		current  *csvRow
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}
		row.line = line

		if row.Name != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (images) belong to the current product.
		if current != nil && len(row.ImageURLs) > 0 {
			current.ImageURLs = append(current.ImageURLs, row.ImageURLs...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	i.logger.Info("import finished", zap.Int("products", imported))
	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	p, err := row.toProduct()
	if err != nil {
		return fmt.Errorf("row %d: %w", row.line, err)
	}
	if _, err := i.repo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", p.Name, err)
	}
	i.logger.Debug("imported", zap.String("id", p.ID), zap.String("name", p.Name))
	return nil
}

func (row *csvRow) toProduct() (domain.Product, error) {
	id := row.ID
	if id == "" {
		id = uuid.NewSHA1(productNamespace, []byte(strings.ToLower(row.Name))).String()
	} else if _, err := uuid.Parse(id); err != nil {
		return domain.Product{}, fmt.Errorf("invalid id %q for %q", id, row.Name)
	}

	typ := strings.ToUpper(row.Type)
	if !domain.IsProductType(typ) {
		return domain.Product{}, fmt.Errorf("unknown type %q for %q", row.Type, row.Name)
	}
	platform := strings.ToUpper(row.Platform)
	if !domain.IsPlatform(platform) {
		return domain.Product{}, fmt.Errorf("unknown platform %q for %q", row.Platform, row.Name)
	}
	price, err := decimal.NewFromString(row.Price)
	if err != nil || price.IsNegative() {
		return domain.Product{}, fmt.Errorf("invalid price %q for %q", row.Price, row.Name)
	}

	var stock *int
	if row.Stock != "" {
		n, err := strconv.Atoi(row.Stock)
		if err != nil || n < 0 {
			return domain.Product{}, fmt.Errorf("invalid stock %q for %q", row.Stock, row.Name)
		}
		stock = &n
	}

	return domain.Product{
		ID:          id,
		Name:        row.Name,
		Description: row.Desc,
		Type:        typ,
		Platform:    platform,
		Category:    row.Category,
		Price:       price,
		Stock:       stock,
		Images:      row.ImageURLs,
	}, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	name := pick(record, index, "name")
	imageURL := pick(record, index, "images.url")

	if name == "" && imageURL == "" {
		return nil
	}

	row := &csvRow{
		ID:       pick(record, index, "id"),
		Name:     name,
		Desc:     pick(record, index, "description"),
		Type:     pick(record, index, "type"),
		Platform: pick(record, index, "platform"),
		Category: pick(record, index, "category"),
		Price:    pick(record, index, "price"),
		Stock:    pick(record, index, "stock"),
	}
	if imageURL != "" {
		row.ImageURLs = []string{imageURL}
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
