// backend-go/cmd/seed/main.go
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Create the schema and seed reference data",
		Commands: []*cli.Command{
			{
				Name:   "schema",
				Usage:  "Create the run history and store tables",
				Flags:  []cli.Flag{newDBURLFlag()},
				Action: runSchema,
			},
			{
				Name:   "stores",
				Usage:  "Seed the store directory (routes, classes, clinics)",
				Flags:  []cli.Flag{newDBURLFlag()},
				Action: runStores,
			},
			{
				Name:  "all",
				Usage: "Create the schema and seed the store directory",
				Flags: []cli.Flag{newDBURLFlag()},
				Action: func(c *cli.Context) error {
					if err := runSchema(c); err != nil {
						return err
					}
					return runStores(c)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id                   BIGSERIAL PRIMARY KEY,
	sequence             TEXT NOT NULL,
	products_processed   INT NOT NULL DEFAULT 0,
	products_with_orders INT NOT NULL DEFAULT 0,
	halloween_excluded   INT NOT NULL DEFAULT 0,
	navidad_excluded     INT NOT NULL DEFAULT 0,
	clinic_only_limited  INT NOT NULL DEFAULT 0,
	total_excluded       INT NOT NULL DEFAULT 0,
	total_units          INT NOT NULL DEFAULT 0,
	zip_path             TEXT NOT NULL DEFAULT '',
	log_path             TEXT NOT NULL DEFAULT '',
	started_at           TIMESTAMPTZ NOT NULL,
	completed_at         TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS run_decisions (
	id             BIGSERIAL PRIMARY KEY,
	run_id         BIGINT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	store          TEXT NOT NULL,
	barcode        TEXT NOT NULL DEFAULT '',
	internal_ref   TEXT NOT NULL DEFAULT '',
	product        TEXT NOT NULL,
	category       TEXT NOT NULL,
	product_type   TEXT NOT NULL,
	quantity       INT NOT NULL,
	reason         TEXT NOT NULL,
	short_supplied BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_run_decisions_run_id ON run_decisions(run_id);

CREATE TABLE IF NOT EXISTS run_shortfalls (
	id        BIGSERIAL PRIMARY KEY,
	run_id    BIGINT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	store     TEXT NOT NULL,
	product   TEXT NOT NULL,
	category  TEXT NOT NULL,
	requested INT NOT NULL,
	delivered INT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_run_shortfalls_run_id ON run_shortfalls(run_id);

CREATE TABLE IF NOT EXISTS stores (
	name       TEXT PRIMARY KEY,
	route      TEXT NOT NULL DEFAULT '',
	class      TEXT NOT NULL DEFAULT 'regular',
	has_clinic BOOLEAN NOT NULL DEFAULT FALSE
);
`

func runSchema(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(c.Context, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	log.Println("schema created")
	return nil
}

func runStores(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	query := `
		INSERT INTO stores (name, route, class, has_clinic)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET route = EXCLUDED.route, class = EXCLUDED.class, has_clinic = EXCLUDED.has_clinic
	`

	count := 0
	for _, info := range domain.DefaultStoreDirectory().Stores() {
		if _, err := db.ExecContext(c.Context, query, info.Name, info.Route, string(info.Class), info.HasClinic); err != nil {
			return fmt.Errorf("failed to seed store %s: %w", info.Name, err)
		}
		count++
	}

	log.Printf("seeded %d stores", count)
	return nil
}
