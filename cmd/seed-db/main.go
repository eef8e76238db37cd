// Command seed-db loads an initial catalog and customer book into the
// database from a JSON fixture file, optionally gzip-compressed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	"github.com/xenking/shopdesk/internal/domain/customer"
	"github.com/xenking/shopdesk/internal/domain/product"
	"github.com/xenking/shopdesk/internal/repository"
)

type seedFile struct {
	Products []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Price       int64  `json:"price"`
		Stock       int64  `json:"stock"`
	} `json:"products"`
	Customers []struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
		Address    string `json:"address"`
		PostalCode string `json:"postalCode"`
		City       string `json:"city"`
		Notes      string `json:"notes"`
	} `json:"customers"`
}

func main() {
	var (
		databaseURL string
		seedPath    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedPath, "seed-file", "db/seed/fixtures.json.gz", "path to seed JSON file (.gz supported)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, seedPath); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, databaseURL, seedPath string) error {
	seed, err := readSeed(seedPath)
	if err != nil {
		return errors.Wrap(err, "read seed")
	}

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	products := repository.NewProductRepository(pool)
	for _, p := range seed.Products {
		in := product.Input{
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Stock:       p.Stock,
		}
		if err := in.Validate(); err != nil {
			return errors.Wrapf(err, "seed product %q", p.Name)
		}
		if _, err := products.Create(ctx, in); err != nil {
			return errors.Wrapf(err, "insert product %q", p.Name)
		}
	}

	customers := repository.NewCustomerRepository(pool)
	for _, c := range seed.Customers {
		in := customer.Input{
			Name:       c.Name,
			Email:      c.Email,
			Phone:      c.Phone,
			Address:    c.Address,
			PostalCode: c.PostalCode,
			City:       c.City,
			Notes:      c.Notes,
		}
		if err := in.Validate(); err != nil {
			return errors.Wrapf(err, "seed customer %q", c.Name)
		}
		if _, err := customers.Create(ctx, in); err != nil {
			return errors.Wrapf(err, "insert customer %q", c.Name)
		}
	}

	slog.Info("seed complete",
		"products", len(seed.Products),
		"customers", len(seed.Customers),
	)
	return nil
}

func readSeed(path string) (*seedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip")
		}
		defer zr.Close()
		r = zr
	}

	var seed seedFile
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return nil, errors.Wrap(err, "decode json")
	}
	return &seed, nil
}
