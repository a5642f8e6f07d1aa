package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"booklibrary/internal/book"
	"booklibrary/internal/config"
	"booklibrary/internal/database"
	"booklibrary/internal/logger"
	"booklibrary/internal/platform/openlibrary"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const serviceName = "booklibrary-seed"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &cli.App{
		Name:      "seed",
		Usage:     "import books from Open Library by ISBN",
		ArgsUsage: "[ISBN...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Usage: "read ISBNs from `PATH`, one per line"},
		},
		Action: func(c *cli.Context) error {
			isbns := c.Args().Slice()
			if path := c.String("file"); path != "" {
				fromFile, err := readISBNs(path)
				if err != nil {
					return err
				}
				isbns = append(isbns, fromFile...)
			}
			if len(isbns) == 0 {
				return errors.New("no ISBNs given")
			}
			return run(c.Context, isbns)
		},
	}
	if err := app.RunContext(ctx, os.Args); err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("seed failed")
	}
}

func run(ctx context.Context, isbns []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Log, serviceName, cfg.Env)

	pool, err := database.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, log); err != nil {
			return err
		}
	}

	catalog := openlibrary.NewClient(openlibrary.Options{
		BaseURL:   cfg.Catalog.BaseURL,
		UserAgent: cfg.Catalog.UserAgent,
		RPS:       cfg.Catalog.RPS,
		Timeout:   cfg.Catalog.Timeout,
	})
	svc := book.NewService(book.NewPostgresRepo(pool, cfg.Database.QueryTimeout), catalog, log)

	res := importISBNs(ctx, svc, isbns, log)
	log.Info().
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("seed finished")
	if res.Failed > 0 {
		return fmt.Errorf("%d of %d ISBNs failed", res.Failed, len(isbns))
	}
	return ctx.Err()
}

func readISBNs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, scanner.Err()
}
