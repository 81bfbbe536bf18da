package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "resiplan/internal/adapters/email"
	web "resiplan/internal/adapters/http"
	"resiplan/internal/adapters/http/perf"
	"resiplan/internal/adapters/storage"
	accountStore "resiplan/internal/adapters/storage/account"
	checklistStore "resiplan/internal/adapters/storage/checklist"
	residenciaStore "resiplan/internal/adapters/storage/residencia"
	"resiplan/internal/application/orchestrators"
	"resiplan/internal/domain/account"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// WAL mode, foreign keys and a busy timeout keep concurrent reads cheap
	// and writes serialized without "database is locked" errors.
	dbPath := envOrDefault("RESIPLAN_DB", "resiplan.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	resiStore := residenciaStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:    acctStore,
		ResidenciaStore: resiStore,
		ChecklistStore:  checklistStore.NewSQLiteStore(timedDB),
	}

	// Seed the admin account so a fresh install is usable immediately.
	adminEmail := envOrDefault("RESIPLAN_ADMIN_EMAIL", "admin@resiplan.example")
	adminPassword := os.Getenv("RESIPLAN_ADMIN_PASSWORD")
	if adminPassword == "" {
		if os.Getenv("RESIPLAN_ENV") == "production" {
			log.Fatal("RESIPLAN_ADMIN_PASSWORD is required in production")
		}
		adminPassword = "cambiame-ya-mismo"
	}
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore}
	if _, err := orchestrators.ExecuteCreateAccount(context.Background(), orchestrators.CreateAccountInput{
		Email:    adminEmail,
		Password: adminPassword,
		Role:     account.RoleAdmin,
	}, seedDeps); err != nil {
		log.Fatalf("failed to seed admin account: %v", err)
	}

	// Seed a small synthetic catalog for development only
	if os.Getenv("RESIPLAN_ENV") != "production" {
		seedCatalogDeps := orchestrators.SeedResidenciasDeps{ResidenciaStore: resiStore}
		if err := orchestrators.ExecuteSeedResidencias(context.Background(), seedCatalogDeps); err != nil {
			log.Fatalf("failed to seed residencias: %v", err)
		}
	}

	// Configure email sender and the weekly digest
	resendKey := os.Getenv("RESIPLAN_RESEND_KEY")
	emailFrom := envOrDefault("RESIPLAN_RESEND_FROM", "Resiplan <noreply@resiplan.example>")
	emailReply := os.Getenv("RESIPLAN_REPLY_TO")
	recipients := splitList(os.Getenv("RESIPLAN_DIGEST_TO"))

	var sender emailPkg.Sender
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom, emailReply)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if os.Getenv("RESIPLAN_ENV") == "production" {
			log.Println("WARNING: RESIPLAN_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set RESIPLAN_RESEND_KEY for real delivery)")
		}
	}
	web.SetEmailSender(sender, recipients)

	// Weekly digest worker: checks hourly, sends once per week.
	digestStopCh := make(chan struct{})
	defer close(digestStopCh)
	if len(recipients) > 0 {
		orchestrators.StartDigestWorker(orchestrators.NewDigestScheduler(), recipients, time.Hour,
			orchestrators.WeekDigestDeps{
				ResidenciaStore: resiStore,
				ChecklistStore:  stores.ChecklistStore,
				Sender:          sender,
			}, digestStopCh)
		log.Printf("Digest worker started (%d recipients)", len(recipients))
	}

	mux := web.NewMux("internal/adapters/http/static", stores, collector)

	addr := envOrDefault("RESIPLAN_ADDR", ":8080")
	log.Printf("Resiplan %s starting on %s (env=%s)", version, addr, envOrDefault("RESIPLAN_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma-separated env value, trimming blanks.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
