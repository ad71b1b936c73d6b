package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fireworkspos/backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type SaleListFilter struct {
	Limit  int
	Offset int
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SearchProducts returns the flattened catalog. A non-empty query filters
// by case-insensitive substring across name, code and category.
func (r *Repository) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	search := strings.TrimSpace(query)

	rows, err := r.pool.Query(ctx, `
		SELECT
			id,
			category,
			code,
			product_name,
			price::double precision,
			description,
			created_at,
			updated_at
		FROM products
		WHERE $1 = ''
			OR product_name ILIKE '%' || $1 || '%'
			OR code ILIKE '%' || $1 || '%'
			OR category ILIKE '%' || $1 || '%'
		ORDER BY category ASC, id ASC
	`, search)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 64)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.Category,
			&p.Code,
			&p.Name,
			&p.Price,
			&p.Description,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// AllocateCounters bumps the sale and invoice counters together and
// returns the new values. The single-row UPDATE makes allocation atomic:
// concurrent checkouts can never observe a duplicate number.
func (r *Repository) AllocateCounters(ctx context.Context) (int64, int64, error) {
	var saleNo, invoiceNo int64
	err := r.pool.QueryRow(ctx, `
		UPDATE counters
		SET sale_no = sale_no + 1,
			invoice_no = invoice_no + 1,
			updated_at = NOW()
		WHERE id = 1
		RETURNING sale_no, invoice_no
	`).Scan(&saleNo, &invoiceNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, fmt.Errorf("counters row missing; run migrations")
		}
		return 0, 0, fmt.Errorf("allocate counters: %w", err)
	}
	return saleNo, invoiceNo, nil
}

// AppendSale writes the sale header and its lines in one transaction and
// returns the stored record with identifiers and timestamp filled in.
func (r *Repository) AppendSale(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("begin sale tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `
		INSERT INTO sales (
			sale_no,
			invoice_no,
			invoice_code,
			total,
			discount,
			final_cost,
			payment_mode,
			pdf_file
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`,
		sale.SaleNo,
		sale.InvoiceNo,
		sale.InvoiceCode,
		sale.Total,
		sale.Discount,
		sale.FinalCost,
		sale.PaymentMode,
		sale.PDFFile,
	).Scan(&sale.ID, &sale.CreatedAt); err != nil {
		return domain.Sale{}, fmt.Errorf("insert sale: %w", err)
	}

	for i := range sale.Items {
		line := &sale.Items[i]
		if err := tx.QueryRow(ctx, `
			INSERT INTO sale_lines (
				sale_id,
				product_name,
				price,
				qty,
				line_total
			) VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, sale.ID, line.ProductName, line.Price, line.Qty, line.LineTotal).Scan(&line.ID); err != nil {
			return domain.Sale{}, fmt.Errorf("insert sale line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Sale{}, fmt.Errorf("commit sale tx: %w", err)
	}
	return sale, nil
}

// ListSales returns persisted sales newest first, lines included.
func (r *Repository) ListSales(ctx context.Context, filter SaleListFilter) ([]domain.Sale, error) {
	limit := normalizeLimit(filter.Limit)
	offset := normalizeOffset(filter.Offset)

	rows, err := r.pool.Query(ctx, `
		SELECT
			id,
			sale_no,
			invoice_no,
			invoice_code,
			total::double precision,
			discount::double precision,
			final_cost::double precision,
			payment_mode,
			pdf_file,
			created_at
		FROM sales
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0, limit)
	ids := make([]int64, 0, limit)
	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(
			&s.ID,
			&s.SaleNo,
			&s.InvoiceNo,
			&s.InvoiceCode,
			&s.Total,
			&s.Discount,
			&s.FinalCost,
			&s.PaymentMode,
			&s.PDFFile,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		s.Items = []domain.SaleLine{}
		sales = append(sales, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}
	if len(sales) == 0 {
		return sales, nil
	}

	lineRows, err := r.pool.Query(ctx, `
		SELECT
			id,
			sale_id,
			product_name,
			price::double precision,
			qty,
			line_total::double precision
		FROM sale_lines
		WHERE sale_id = ANY($1)
		ORDER BY id ASC
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer lineRows.Close()

	bySale := make(map[int64]int, len(sales))
	for idx, s := range sales {
		bySale[s.ID] = idx
	}
	for lineRows.Next() {
		var (
			line   domain.SaleLine
			saleID int64
		)
		if err := lineRows.Scan(
			&line.ID,
			&saleID,
			&line.ProductName,
			&line.Price,
			&line.Qty,
			&line.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		if idx, ok := bySale[saleID]; ok {
			sales[idx].Items = append(sales[idx].Items, line)
		}
	}
	if err := lineRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale lines: %w", err)
	}

	return sales, nil
}

// UpsertProducts writes catalog rows keyed by (category, product_name).
// Existing rows are refreshed in place so re-running an import is safe.
func (r *Repository) UpsertProducts(ctx context.Context, rows []domain.CatalogImportRow) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("begin catalog import tx: %w", err)
	}
	defer tx.Rollback(ctx)

	created := 0
	updated := 0
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}

		var existingID int64
		err := tx.QueryRow(ctx, `
			SELECT id FROM products
			WHERE category = $1 AND LOWER(product_name) = LOWER($2)
		`, row.Category, name).Scan(&existingID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, fmt.Errorf("query existing product %q: %w", name, err)
		}

		if errors.Is(err, pgx.ErrNoRows) {
			if _, err := tx.Exec(ctx, `
				INSERT INTO products (category, code, product_name, price, description)
				VALUES ($1, $2, $3, $4, $5)
			`, row.Category, row.Code, name, row.Price, row.Description); err != nil {
				return 0, 0, fmt.Errorf("insert product %q: %w", name, err)
			}
			created++
			continue
		}

		if _, err := tx.Exec(ctx, `
			UPDATE products
			SET code = $2,
				price = $3,
				description = $4,
				updated_at = NOW()
			WHERE id = $1
		`, existingID, row.Code, row.Price, row.Description); err != nil {
			return 0, 0, fmt.Errorf("update product %q: %w", name, err)
		}
		updated++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("commit catalog import tx: %w", err)
	}
	return created, updated, nil
}

// ReplaceProducts wipes the catalog and loads the given rows.
func (r *Repository) ReplaceProducts(ctx context.Context, rows []domain.CatalogImportRow) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin catalog replace tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM products"); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO products (category, code, product_name, price, description)
			VALUES ($1, $2, $3, $4, $5)
		`, row.Category, row.Code, name, row.Price, row.Description); err != nil {
			return fmt.Errorf("insert product %q: %w", name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit catalog replace tx: %w", err)
	}
	return nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 1000 {
		return 200
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
