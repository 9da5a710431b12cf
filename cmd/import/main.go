// Command import performs a one-shot import run against a public sheet id
// and prints the processed counts. Intended for operators and cron jobs;
// the long-running service in cmd/server exposes the same run over HTTP.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/mesofi/mythcloth/internal/config"
	"github.com/mesofi/mythcloth/internal/importer"
	"github.com/mesofi/mythcloth/internal/logging"
	"github.com/mesofi/mythcloth/internal/store"
)

func main() {
	sourceID := flag.String("source-id", "", "public spreadsheet id to import (required)")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	flag.Parse()

	if *sourceID == "" {
		fmt.Fprintln(os.Stderr, "usage: import --source-id <sheet-id> [--timeout 5m]")
		os.Exit(2)
	}

	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	st := store.New(pool)
	if err := st.Migrate(ctx); err != nil {
		slog.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	imp := importer.New(st, &importer.DriveSource{})

	result, err := imp.Run(ctx, *sourceID)
	if err != nil {
		slog.Error("import failed", "source_id", *sourceID, "error", err)
		os.Exit(1)
	}

	fmt.Printf("imported %d rows (%d inserted, %d updated) in %s\n",
		result.Rows, result.Inserted, result.Updated, result.Duration.Round(time.Millisecond))
}
