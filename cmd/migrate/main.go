package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/22Jason22/ferremateriales/internal/infrastructure/config"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/logger"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		command        string
		migrationsPath string
		logLevel       string
		steps          int
		version        int
		name           string
		description    string
		confirm        bool
	)

	flag.StringVar(&command, "command", "", "Command: up, down, steps, goto, version, force, drop, create, list")
	flag.StringVar(&migrationsPath, "path", "", "Migrations directory (default: migrations embedded in the binary)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.IntVar(&steps, "n", 0, "Number of migrations for steps (positive=up, negative=down)")
	flag.IntVar(&version, "version", -1, "Target version for goto and force")
	flag.StringVar(&name, "name", "", "Migration name for create")
	flag.StringVar(&description, "description", "", "Migration description for create")
	flag.BoolVar(&confirm, "confirm", false, "Confirm drop")
	flag.Usage = printUsage
	flag.Parse()

	if command == "" && flag.NArg() > 0 {
		command = flag.Arg(0)
	}
	if command == "" {
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", pathOrEmbedded(migrationsPath)),
	)

	// create and list work on the directory only
	switch command {
	case "create":
		if migrationsPath == "" {
			migrationsPath = "migrations"
		}
		if name == "" {
			log.Fatal("Migration name required. Usage: migrate -command create -name <name>")
		}
		mf, err := migration.CreateMigration(migrationsPath, name, description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created successfully",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return
	case "list":
		if migrationsPath == "" {
			migrationsPath = "migrations"
		}
		names, err := migration.ListMigrations(migrationsPath)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		if len(names) == 0 {
			log.Info("No migrations found")
			return
		}
		log.Info("Available migrations", zap.Int("count", len(names)))
		for _, n := range names {
			fmt.Println("  -", n)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatal("Migrations run against PostgreSQL only; the server creates sqlite and mysql schemas itself",
			zap.String("driver", cfg.Database.Driver))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		err = m.Up()

	case "down":
		err = m.Down()

	case "steps":
		if steps == 0 {
			log.Fatal("Step count required. Usage: migrate -command steps -n <n>")
		}
		err = m.Steps(steps)

	case "goto":
		if version < 0 {
			log.Fatal("Version required. Usage: migrate -command goto -version <v>")
		}
		err = m.GoTo(uint(version))

	case "version":
		v, dirty, verr := m.Version()
		if verr != nil {
			log.Fatal("Failed to get version", zap.Error(verr))
		}
		if v == 0 {
			log.Info("No migrations applied")
		} else {
			log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		}

	case "force":
		if version < 0 {
			log.Fatal("Version required. Usage: migrate -command force -version <v>")
		}
		log.Warn("Forcing migration version", zap.Int("version", version))
		err = m.Force(version)

	case "drop":
		if !confirm {
			log.Fatal("Drop cancelled. Use 'migrate -command drop -confirm' to confirm.")
		}
		log.Warn("Dropping all database objects")
		err = m.Drop()

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func pathOrEmbedded(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

func printUsage() {
	fmt.Println(`Ferremateriales database migration tool

Usage:
  migrate -command <command> [flags]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  steps -n <n>          Apply n migrations (positive=up, negative=down)
  goto -version <v>     Migrate to a specific version
  version               Show current migration version
  force -version <v>    Force set migration version after a failed run
  drop -confirm         Drop all database objects
  create -name <name>   Create a new migration file pair in -path
  list                  List migrations in -path

Flags:
  -path string          Migrations directory (default: embedded migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Connection settings come from config.toml, .env and FERRE_* environment
variables, as for the server.`)
}
