package main

import (
	"log"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/example/studyplan/internal/app"
	"github.com/example/studyplan/internal/config"
	"github.com/example/studyplan/internal/storage"
	"github.com/example/studyplan/internal/web"
)

func main() {
	// 1. Define and parse command-line flags
	flags := pflag.NewFlagSet("studyplan", pflag.ExitOnError)
	configPath := flags.String("config", "", "Path to a YAML config file")
	flags.String("db", "", "Path to the SQLite database file")
	flags.String("listen", "", "Address to serve HTTP on")
	flags.String("backup-dir", "", "Directory for git snapshot backups (empty disables backups)")
	flags.String("calendar-host", "", "Host used in calendar export UIDs")
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}

	// 2. Load configuration (defaults, file, env, flags)
	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 3. Open the database
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	log.Printf("Database opened successfully: %s", cfg.DBPath)

	// 4. Wire the service and HTTP server
	svc := app.New(db, cfg.BackupDir, cfg.CalendarHost)
	server := web.NewServer(svc)

	log.Printf("Serving on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, server); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
