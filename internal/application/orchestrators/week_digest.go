package orchestrators

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/yuin/goldmark"

	"resiplan/internal/adapters/email"
	"resiplan/internal/application/projections"
	"resiplan/internal/domain/week"
)

// WeekDigestInput carries input for the digest orchestrator.
type WeekDigestInput struct {
	WeekStart  string
	Recipients []string
}

// WeekDigestDeps holds dependencies for WeekDigest.
type WeekDigestDeps struct {
	ResidenciaStore ResidenciaStoreForReconcile
	ChecklistStore  ChecklistStoreForReconcile
	Sender          email.Sender
}

// ExecuteWeekDigest reconciles the week, renders a markdown summary of the
// board to HTML and emails it to the recipients.
// PRE: input.Recipients is non-empty
// POST: one email sent covering every catalog residencia
func ExecuteWeekDigest(ctx context.Context, input WeekDigestInput, deps WeekDigestDeps) (email.SendResult, error) {
	if len(input.Recipients) == 0 {
		return email.SendResult{}, fmt.Errorf("digest has no recipients")
	}

	state, err := ExecuteReconcileWeek(ctx, ReconcileWeekInput{WeekStart: input.WeekStart}, ReconcileWeekDeps{
		ResidenciaStore: deps.ResidenciaStore,
		ChecklistStore:  deps.ChecklistStore,
	})
	if err != nil {
		return email.SendResult{}, err
	}

	rows := projections.Rows(state)
	md := digestMarkdown(state.WeekStart, rows, projections.Summarize(rows))

	var html bytes.Buffer
	if err := goldmark.Convert([]byte(md), &html); err != nil {
		return email.SendResult{}, fmt.Errorf("failed to render digest: %w", err)
	}

	result, err := deps.Sender.Send(ctx, email.SendRequest{
		To:      input.Recipients,
		Subject: fmt.Sprintf("Semana %s — estado de preparación", input.WeekStart),
		HTML:    html.String(),
	})
	if err != nil {
		return email.SendResult{}, err
	}

	slog.Info("digest_event", "event", "digest_sent", "week_start", input.WeekStart,
		"recipients", len(input.Recipients), "message_id", result.MessageID)
	return result, nil
}

// digestMarkdown builds the email body. Markdown keeps the template readable
// and lets per-entry notes (already markdown) flow through unescaped.
func digestMarkdown(weekStart string, rows []projections.BoardRow, s projections.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Semana del %s\n\n", weekStart)
	fmt.Fprintf(&b, "**Preparadas:** %d · **Con entrega:** %d · **Pendientes:** %d\n\n",
		s.Prepared, s.DueForDelivery, s.Pending)

	for _, g := range projections.GroupByDeliveryDay(rows) {
		fmt.Fprintf(&b, "## %s\n\n", g.Day)
		for _, row := range g.Rows {
			status := "pendiente"
			if row.Entry.IsComplete() {
				status = "lista"
			}
			fmt.Fprintf(&b, "- **%s** (%d pacientes, %d plantas) — %s, prep %s, entrega %s\n",
				row.Residencia.Name, row.Residencia.Patients, row.Residencia.Floors,
				status, row.PrepDate, row.DeliverDate)
			if row.Entry.Notes != nil && *row.Entry.Notes != "" {
				fmt.Fprintf(&b, "  - %s\n", *row.Entry.Notes)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// DigestScheduler sends the digest at most once per week, checking on a
// fixed interval. Last-sent state is in memory only; a restart may resend
// one digest, which is harmless.
type DigestScheduler struct {
	mu           sync.Mutex
	lastSentWeek string
}

// NewDigestScheduler creates a scheduler with no send history.
func NewDigestScheduler() *DigestScheduler {
	return &DigestScheduler{}
}

// shouldSend reports whether the current week's digest is still owed.
func (ds *DigestScheduler) shouldSend(weekStart string) bool {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if ds.lastSentWeek == weekStart {
		return false
	}
	ds.lastSentWeek = weekStart
	return true
}

// StartDigestWorker starts a background goroutine that sends the weekly
// digest once per week.
// PRE: stopCh is provided to signal shutdown
// POST: Worker runs until stopCh is closed
func StartDigestWorker(ds *DigestScheduler, recipients []string, interval time.Duration, deps WeekDigestDeps, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				weekStart := week.WeekStart(time.Now())
				if !ds.shouldSend(weekStart) {
					continue
				}
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				_, err := ExecuteWeekDigest(ctx, WeekDigestInput{
					WeekStart:  weekStart,
					Recipients: recipients,
				}, deps)
				cancel()
				if err != nil {
					slog.Error("digest_send_failed", "error", err.Error(), "week_start", weekStart)
					// Retry on the next tick.
					ds.mu.Lock()
					ds.lastSentWeek = ""
					ds.mu.Unlock()
				}
			case <-stopCh:
				slog.Info("digest_worker_stopped")
				return
			}
		}
	}()
}
