package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/jirayus/storeline-service-agent/agent/contract"
)

type PostgresConfig struct {
	DSN     string        `envconfig:"DSN" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

type productRow struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	Name       string         `bun:"name,pk"`
	Category   string         `bun:"category,notnull"`
	Brand      string         `bun:"brand"`
	Attributes map[string]any `bun:"attributes,type:jsonb"`
}

// LoadPostgres reads the full products table once and builds the same
// immutable Store the file source produces. The connection is closed before
// returning; the catalog never goes back to the database at serve time.
func LoadPostgres(ctx context.Context, cfg PostgresConfig) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%w: postgres dsn is empty", contractx.ErrCatalogLoad)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithTimeout(cfg.Timeout),
	))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	var rows []productRow
	if err := db.NewSelect().Model(&rows).Order("name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: select products: %v", contractx.ErrCatalogLoad, err)
	}

	products := make([]contractx.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, contractx.Product{
			Name:       row.Name,
			Category:   row.Category,
			Brand:      row.Brand,
			Attributes: row.Attributes,
		})
	}

	return NewStore(products), nil
}
