package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/chrissnell/astrocalc/internal/log"
	"github.com/chrissnell/astrocalc/pkg/config"
	"github.com/chrissnell/astrocalc/pkg/migrate"
	_ "modernc.org/sqlite" // SQLite driver
)

func main() {
	var (
		dbPath        = flag.String("db", "", "Path to the SQLite configuration database")
		command       = flag.String("command", "up", "Migration command: up, to, version, status")
		targetVersion = flag.Int("target", -1, "Target version for the 'to' command")
		helpFlag      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *helpFlag {
		showHelp()
		return
	}

	if *dbPath == "" {
		fmt.Fprintf(os.Stderr, "Error: -db flag is required\n")
		showHelp()
		os.Exit(1)
	}

	if err := log.Init(false); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	migrator := migrate.NewMigrator(db, config.SettingsMigrations(), log.GetSugaredLogger())

	switch *command {
	case "up":
		err = migrator.MigrateUp()
	case "to":
		if *targetVersion < 0 {
			fmt.Fprintf(os.Stderr, "Error: -target flag is required for to command\n")
			os.Exit(1)
		}
		err = migrator.MigrateTo(*targetVersion)
	case "version":
		var version int
		version, err = migrator.CurrentVersion()
		if err == nil {
			fmt.Printf("Current version: %d\n", version)
		}
	case "status":
		err = showStatus(migrator)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", *command)
		showHelp()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Migration %s failed: %v", *command, err)
	}
}

func showStatus(migrator *migrate.Migrator) error {
	version, err := migrator.CurrentVersion()
	if err != nil {
		return err
	}
	pending, err := migrator.PendingMigrations()
	if err != nil {
		return err
	}

	fmt.Printf("Current version: %d\n", version)
	if len(pending) == 0 {
		fmt.Println("No pending migrations")
		return nil
	}
	fmt.Printf("Pending migrations (%d):\n", len(pending))
	for _, m := range pending {
		fmt.Printf("  %03d %s\n", m.Version, m.Name)
	}
	return nil
}

func showHelp() {
	fmt.Println(`Usage: migrate -db <astrocalc.db> [-command up|to|version|status] [-target N]

Applies the settings schema migrations to an astrocalc SQLite configuration
database. The server applies them automatically on start; this tool is for
inspecting or rolling back a database by hand.`)
	flag.PrintDefaults()
}
