package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"grievance/backend/internal/auth"
	"grievance/backend/internal/classifier"
	"grievance/backend/internal/config"
	"grievance/backend/internal/grievance"
	"grievance/backend/internal/models"
	"grievance/backend/internal/reclassify"
	"grievance/backend/internal/storage"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const usage = `Usage: admin [--dsn DSN] <command> [flags]

Commands:
  create-user   --name N --email E --password P --role R [--department D]
  set-status    <grievance_id> <Pending|In Progress|Resolved>
  reclassify    [--limit N] [--classifier-url URL]
  stats         [--department D ...]
`

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	global := pflag.NewFlagSet("admin", pflag.ContinueOnError)
	global.SetInterspersed(false)
	dsn := global.String("dsn", os.Getenv("DATABASE_DSN"), "PostgreSQL DSN (default $DATABASE_DSN)")
	if err := global.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Print(usage)
			return
		}
		log.Fatal(err)
	}

	args := global.Args()
	if len(args) < 1 || *dsn == "" {
		fmt.Print(usage)
		os.Exit(1)
	}

	db, err := gorm.Open(postgres.Open(*dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI
	ctx := context.Background()

	command, rest := args[0], args[1:]
	switch command {
	case "create-user":
		err = createUser(ctx, storageSvc, rest)
	case "set-status":
		err = setStatus(ctx, storageSvc, rest)
	case "reclassify":
		err = runReclassify(ctx, storageSvc, rest)
	case "stats":
		err = printStats(ctx, storageSvc, rest)
	default:
		fmt.Printf("Unknown command %q\n\n%s", command, usage)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func createUser(ctx context.Context, s storage.Storage, args []string) error {
	fs := pflag.NewFlagSet("create-user", pflag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "login email")
	password := fs.String("password", "", "initial password")
	role := fs.String("role", string(models.RoleCitizen), "citizen, DepartmentOfficial or Admin")
	department := fs.String("department", "", "department (required for officials)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r := models.Role(*role)
	switch {
	case !r.Valid():
		return fmt.Errorf("unknown role %q", *role)
	case strings.TrimSpace(*email) == "" || *password == "":
		return errors.New("--email and --password are required")
	case r == models.RoleDepartmentOfficial && *department == "":
		return errors.New("--department is required for DepartmentOfficial")
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		return err
	}
	user := &models.User{
		Name:         *name,
		Email:        strings.ToLower(strings.TrimSpace(*email)),
		PasswordHash: hash,
		Role:         r,
		Department:   *department,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		return err
	}
	fmt.Printf("User %s (%s) created with id %s.\n", user.Email, user.Role, user.ID)
	return nil
}

func setStatus(ctx context.Context, s storage.Storage, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: admin set-status <grievance_id> <status>")
	}
	svc := grievance.NewService(s, nil, nil)
	g, err := svc.UpdateStatus(ctx, args[0], models.Status(args[1]))
	if err != nil {
		return err
	}
	fmt.Printf("Grievance %s is now %s.\n", g.ID, g.Status)
	return nil
}

func runReclassify(ctx context.Context, s *storage.Service, args []string) error {
	fs := pflag.NewFlagSet("reclassify", pflag.ContinueOnError)
	limit := fs.Int("limit", config.DefaultReclassifyBatch, "maximum grievances to process")
	url := fs.String("classifier-url", envOr("CLASSIFIER_URL", "http://localhost:5001"), "classifier base URL")
	timeout := fs.Duration("timeout", config.DefaultClassifierTimeout, "per-request classifier timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cl := classifier.NewClient(classifier.Options{
		BaseURL:       *url,
		Timeout:       *timeout,
		RetryAttempts: 2,
		RetryInitial:  200 * time.Millisecond,
		RetryMax:      2 * time.Second,
	})
	svc := grievance.NewService(s, cl, nil)

	// Without Redis the worker reads the database flag directly.
	n, err := reclassify.NewWorker(s, svc, time.Minute, *limit).RunOnce(ctx)
	fmt.Printf("Reclassified %d grievances.\n", n)
	return err
}

func printStats(ctx context.Context, s storage.Storage, args []string) error {
	fs := pflag.NewFlagSet("stats", pflag.ContinueOnError)
	departments := fs.StringArray("department", nil, "restrict to department (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := grievance.NewService(s, nil, nil).Stats(ctx, *departments)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
