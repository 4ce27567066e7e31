package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"library-persistence/internal/config"
	"library-persistence/internal/logger"
	"library-persistence/library"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// Global flags
	configFile string
	dbPath     string
	jsonOutput bool
	verbose    bool

	// Set up by rootCmd.PersistentPreRunE.
	cfg *config.Config
	log zerolog.Logger
	db  *library.Database
	mgr *library.LibraryManager
)

var rootCmd = &cobra.Command{
	Use:   "librarydb",
	Short: "Library management on a SQLite store",
	Long: `librarydb manages members, the catalogue and circulation (issue, renew,
return, fines, reservations and fund requests) in a single SQLite file.

Configuration is read from --config (YAML), then LIBRARY_* environment
variables, e.g. LIBRARY_DATABASE__PATH=/var/lib/library.db.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			return db.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfg, err = config.Load(configFile); err != nil {
		return err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log = logger.New(logger.Config{Level: level, Format: cfg.Log.Format})

	ctx := ctxOf(cmd)
	db, err = library.Open(ctx, library.Options{
		Path:        cfg.Database.Path,
		BusyTimeout: cfg.Database.BusyTimeout,
		Logger:      log,
	})
	if err != nil {
		log.Error().Err(err).Str("path", cfg.Database.Path).Msg("cannot open database")
		return err
	}
	if err := db.CreateTables(ctx); err != nil {
		return err
	}
	mgr = library.NewLibraryManager(db,
		library.WithLogger(log),
		library.WithPolicy(library.Policy{
			ReservationHoldDays: cfg.Policy.ReservationHoldDays,
			MaxRenewals:         cfg.Policy.MaxRenewals,
		}),
	)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// readPassword reads a password with masking when stdin is a terminal, or a
// single line otherwise.
func readPassword(prompt string) (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
	fmt.Fprint(os.Stderr, prompt)
	bytePassword, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Add newline after password input
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(bytePassword)), nil
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", what, s)
	}
	return id, nil
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %q", s)
	}
	return v, nil
}

// printJSON writes v as indented JSON and reports whether --json was set.
func printJSON(v any) (bool, error) {
	if !jsonOutput {
		return false, nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return true, enc.Encode(v)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
