package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pharmatrack/chaintrackr/internal/api"
	"github.com/pharmatrack/chaintrackr/internal/db"
	"github.com/pharmatrack/chaintrackr/internal/model"
	"github.com/pharmatrack/chaintrackr/internal/store"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	fs := flag.NewFlagSet("chaintrackr", flag.ContinueOnError)

	var dbPath string
	fs.StringVar(&dbPath, "db", "chaintrackr.sqlite3", "")
	fs.StringVar(&dbPath, "d", "chaintrackr.sqlite3", "")

	var addr string
	fs.StringVar(&addr, "addr", ":8080", "")
	fs.StringVar(&addr, "a", ":8080", "")

	var adminUser string
	fs.StringVar(&adminUser, "user", "Admin", "")
	fs.StringVar(&adminUser, "u", "Admin", "")

	var logPath string
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	var seed bool
	fs.BoolVar(&seed, "seed", false, "")
	fs.BoolVar(&seed, "s", false, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: chaintrackr [flags]

Flags:
  -d, -db <path>          SQLite database path (default: chaintrackr.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -u, -user <name>        admin username on first run (default: Admin)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -s, -seed               seed demo accounts and sample batches on first run
  -h, -help               show this help and exit
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	closeLog, err := setupLogger(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	// Check if DB exists, auto-init if not.
	firstRun := false
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		firstRun = true
		database, password, err := initDatabase(dbPath, adminUser)
		if err != nil {
			slog.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		database.Close()

		printInitResult(dbPath, adminUser, password)
		fmt.Println()
	}

	database, err := db.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Schema and migrations are both idempotent.
	if err := db.Migrate(database); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready", "path", dbPath)

	ctx := context.Background()

	if seed && firstRun {
		if err := seedSampleData(ctx, database); err != nil {
			slog.Error("failed to seed sample data", "error", err)
			os.Exit(1)
		}
		slog.Info("sample data seeded")
	}

	// Expiry flags and discounted prices are recomputed on every startup.
	if err := store.UpdateExpiryStatus(ctx, database); err != nil {
		slog.Error("failed to refresh expiry status", "error", err)
		os.Exit(1)
	}

	// Load JWT secret from database (auto-generated on first run).
	jwtSecret, err := store.EnsureJWTSecret(ctx, database)
	if err != nil {
		slog.Error("failed to get JWT secret", "error", err)
		os.Exit(1)
	}

	handler := api.LoggingMiddleware(api.NewRouter(database, jwtSecret))

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}

// initDatabase creates a new database, ensures the schema, and creates the admin user.
func initDatabase(path, adminUsername string) (*sql.DB, string, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	fail := func(err error) (*sql.DB, string, error) {
		database.Close()
		os.Remove(path)
		return nil, "", err
	}

	if err := db.EnsureSchema(database); err != nil {
		return fail(fmt.Errorf("ensuring schema: %w", err))
	}

	password, err := generatePassword(16)
	if err != nil {
		return fail(fmt.Errorf("generating password: %w", err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fail(fmt.Errorf("hashing password: %w", err))
	}

	ctx := context.Background()
	_, err = store.CreateUser(ctx, database, store.CreateUserInput{
		Username:     adminUsername,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Name:         "Administrator",
	})
	if err != nil {
		return fail(fmt.Errorf("creating admin user: %w", err))
	}

	return database, password, nil
}

// seedSampleData creates demo accounts for every supply chain role and a
// few sample batches with lifecycle history.
func seedSampleData(ctx context.Context, database *sql.DB) error {
	demo := []struct {
		username, role, name, organization string
	}{
		{"manufacturer", model.RoleManufacturer, "Arjun Mehta", "Cipla Ltd"},
		{"distributor", model.RoleDistributor, "Priya Sharma", "MedLife Distributors"},
		{"pharmacy", model.RolePharmacy, "Rahul Nair", "Apollo Pharmacy"},
		{"customer", model.RoleCustomer, "Ananya Iyer", ""},
	}
	for _, d := range demo {
		hash, err := bcrypt.GenerateFromPassword([]byte(d.username+"123!"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing demo password: %w", err)
		}
		_, err = store.CreateUser(ctx, database, store.CreateUserInput{
			Username:     d.username,
			PasswordHash: string(hash),
			Role:         d.role,
			Name:         d.name,
			Organization: d.organization,
		})
		if err != nil {
			return fmt.Errorf("creating demo user %s: %w", d.username, err)
		}
	}

	now := time.Now()
	samples := []store.CreateDrugInput{
		{
			Name:           "Paracetamol 500mg",
			Manufacturer:   "Cipla Ltd",
			Composition:    "Paracetamol IP 500mg",
			ProductionDate: now.AddDate(0, -6, 0),
			ExpiryDate:     now.AddDate(1, 6, 0),
			Price:          45.50,
		},
		{
			Name:           "Amoxicillin 250mg",
			Manufacturer:   "Sun Pharma",
			Composition:    "Amoxicillin Trihydrate IP",
			ProductionDate: now.AddDate(0, -3, 0),
			ExpiryDate:     now.AddDate(0, 0, 25),
			Price:          120,
		},
		{
			Name:           "Cetirizine 10mg",
			Manufacturer:   "Cipla Ltd",
			Composition:    "Cetirizine Hydrochloride IP",
			ProductionDate: now.AddDate(-2, -1, 0),
			ExpiryDate:     now.AddDate(0, -1, 0),
			Price:          30,
		},
	}
	for _, s := range samples {
		drug, err := store.CreateDrug(ctx, database, s)
		if err != nil {
			return fmt.Errorf("creating sample batch: %w", err)
		}
		slog.Info("sample batch created", "batch", drug.BatchNumber, "name", drug.Name)
	}

	return nil
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, username, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println("Schema initialized.")
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password — it cannot be recovered.")
	fmt.Println("The admin can change it after logging in.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
