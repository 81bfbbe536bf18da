package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"resiplan/internal/adapters/email"
	"resiplan/internal/adapters/http/middleware"
	"resiplan/internal/adapters/http/perf"
	accountStore "resiplan/internal/adapters/storage/account"
	checklistStore "resiplan/internal/adapters/storage/checklist"
	residenciaStore "resiplan/internal/adapters/storage/residencia"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore    accountStore.Store
	ResidenciaStore residenciaStore.Store
	ChecklistStore  checklistStore.Store
}

// loadCSRFKey reads the CSRF secret from RESIPLAN_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("RESIPLAN_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("RESIPLAN_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("RESIPLAN_ENV") == "production" {
		log.Fatal("RESIPLAN_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set RESIPLAN_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Digest configuration
var digestRecipients []string

// SetEmailSender sets the global email sender and digest recipients.
func SetEmailSender(sender email.Sender, recipients []string) {
	emailSender = sender
	digestRecipients = recipients
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("RESIPLAN_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	trustedOrigins := []string{"localhost:8080", "127.0.0.1:8080"}
	if extra := os.Getenv("RESIPLAN_TRUSTED_ORIGINS"); extra != "" {
		trustedOrigins = append(trustedOrigins, strings.Split(extra, ",")...)
	}

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, trustedOrigins),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
