package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"booklibrary/internal/database"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp(log).RunContext(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}

func newApp(log zerolog.Logger) *cli.App {
	return &cli.App{
		Name:  "migrate",
		Usage: "manage the booklibrary database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "migrations directory used by create",
				Value:   defaultMigrationsDir,
				EnvVars: []string{migrationsDirEnv},
			},
		},
		Commands: []*cli.Command{
			runCommand(log, database.CommandUp, "apply all pending migrations"),
			runCommand(log, database.CommandDown, "roll back the latest migration"),
			runCommand(log, database.CommandStatus, "show the state of every migration"),
			{
				Name:      "create",
				Usage:     "create a new SQL migration",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return errors.New("name is required for create")
					}
					goose.SetSequential(true)
					return goose.Create(nil, c.String("dir"), name, "sql")
				},
			},
		},
	}
}

func runCommand(log zerolog.Logger, cmd database.Command, usage string) *cli.Command {
	return &cli.Command{
		Name:  string(cmd),
		Usage: usage,
		Action: func(c *cli.Context) error {
			pool, err := openDatabase(c.Context, log)
			if err != nil {
				return err
			}
			defer pool.Close()
			return database.Run(c.Context, pool, log, cmd)
		},
	}
}
