// import-catalog seeds the products table from a catalog file: either the
// legacy category-keyed products.json or an .xlsx sheet.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"fireworkspos/backend/internal/config"
	"fireworkspos/backend/internal/db"
	"fireworkspos/backend/internal/domain"
	"fireworkspos/backend/internal/excel"
	"fireworkspos/backend/internal/money"
	"fireworkspos/backend/internal/repository"
)

type options struct {
	jsonPath  string
	excelPath string
	replace   bool
}

// legacyProduct matches the key names used by the legacy products.json.
type legacyProduct struct {
	ProductNo   string `json:"Product No"`
	ProductName string `json:"Product Name"`
	Price       string `json:"Price"`
	Description string `json:"Description"`
}

func main() {
	opts := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	var rows []domain.CatalogImportRow
	switch {
	case opts.jsonPath != "":
		rows, err = readCatalogJSON(opts.jsonPath)
	case opts.excelPath != "":
		rows, err = readCatalogExcel(opts.excelPath)
	}
	if err != nil {
		log.Fatalf("read catalog: %v", err)
	}
	if len(rows) == 0 {
		log.Fatal("catalog file has no products")
	}

	repo := repository.New(pool)
	if opts.replace {
		if err := repo.ReplaceProducts(ctx, rows); err != nil {
			log.Fatalf("replace catalog: %v", err)
		}
		log.Printf("catalog replaced: %d products", len(rows))
		return
	}

	created, updated, err := repo.UpsertProducts(ctx, rows)
	if err != nil {
		log.Fatalf("import catalog: %v", err)
	}
	log.Printf("catalog import done: %d created, %d updated", created, updated)
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.jsonPath, "json", "", "path to a category-keyed products.json")
	flag.StringVar(&opts.excelPath, "excel", "", "path to a catalog .xlsx file")
	flag.BoolVar(&opts.replace, "replace", false, "wipe the catalog before loading")
	flag.Parse()

	if opts.jsonPath == "" && opts.excelPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if opts.jsonPath != "" && opts.excelPath != "" {
		log.Fatal("pass either -json or -excel, not both")
	}
	return opts
}

func readCatalogJSON(path string) ([]domain.CatalogImportRow, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var byCategory map[string][]legacyProduct
	if err := json.Unmarshal(body, &byCategory); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	rows := make([]domain.CatalogImportRow, 0, 64)
	for _, category := range categories {
		for _, item := range byCategory[category] {
			if item.ProductName == "" {
				continue
			}
			rows = append(rows, domain.CatalogImportRow{
				Category:    category,
				Code:        item.ProductNo,
				Name:        item.ProductName,
				Price:       money.Parse(item.Price).InexactFloat64(),
				Description: item.Description,
			})
		}
	}
	return rows, nil
}

func readCatalogExcel(path string) ([]domain.CatalogImportRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return excel.ParseCatalogRows(file)
}
