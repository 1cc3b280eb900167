package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/campuslabs/unionvote/internal/app"
	"github.com/campuslabs/unionvote/internal/auth"
	"github.com/campuslabs/unionvote/internal/logger"
	"github.com/campuslabs/unionvote/pkg/registry"
)

var (
	version = "dev"
)

// envString returns the environment value for key, or def when unset
func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt returns the environment value for key as an int, or def
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	// .env is optional; flags and real env vars win
	godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8081), "HTTP server port")
	dbPath := flag.String("db", envString("DB_PATH", "election.db"), "SQLite database path")
	adminKey := flag.String("adminkey", envString("ADMIN_KEY", ""), "Admin API key (auto-generated if not set)")
	registryURL := flag.String("registry-url", envString("REGISTRY_URL", ""), "Candidate registry base URL")
	registryKey := flag.String("registry-key", envString("REGISTRY_API_KEY", ""), "Candidate registry API key")
	logLevel := flag.String("loglevel", envString("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `UnionVote - Student Union Election Server

Usage:
  unionvote [options]

Options:
  -port int          HTTP server port (default 8081, env PORT)
  -db string         SQLite database path (default "election.db", env DB_PATH)
  -adminkey str      Admin API key (auto-generated if not set, env ADMIN_KEY)
  -registry-url str  Candidate registry base URL (env REGISTRY_URL)
  -registry-key str  Candidate registry API key (env REGISTRY_API_KEY)
  -loglevel str      Log level: debug, info, warn, error (default "info", env LOG_LEVEL)
  -version           Show version and exit
  -help              Show this help message

Examples:
  unionvote                                # Run on port 8081 with election.db
  unionvote -port 8080                     # Run on port 8080
  unionvote -db /data/election.db          # Use custom database path
  unionvote -adminkey secret123            # Use specific admin key
  unionvote -registry-url http://reg:9000  # Sync candidates from a registry

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("unionvote %s\n", version)
		os.Exit(0)
	}

	// Setup admin authentication
	key := *adminKey
	if key == "" {
		key = auth.GenerateKey()
	}
	adminAuth := auth.New(key)

	// Create logger with specified level
	appLog := logger.NewWithLevel(logger.ParseLevel(*logLevel))

	// Registry client; the URL can also be supplied per sync request
	registryClient := registry.NewHTTPClient(*registryURL, appLog)
	if *registryKey != "" {
		registryClient.SetAPIKey(*registryKey)
	}

	a, err := app.New(appLog, *dbPath, registryClient, adminAuth)
	if err != nil {
		log.Fatal("Failed to initialize application:", err)
	}
	defer a.Close()

	appLog.Info("Admin key", "key", key)

	addr := fmt.Sprintf(":%d", *port)
	if err := a.Run(addr); err != nil {
		log.Fatal(err)
	}
}
