package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"resiplan/internal/adapters/http/middleware"
	"resiplan/internal/application/listutil"
	"resiplan/internal/application/orchestrators"
	"resiplan/internal/application/projections"
	"resiplan/internal/domain/checklist"
	"resiplan/internal/domain/residencia"
	"resiplan/internal/domain/week"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

const templatesDir = "internal/adapters/http/templates"

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	email := ""
	if ok {
		role = sess.Role
		email = sess.Email
	}

	funcMap := template.FuncMap{
		"currentRole":  func() string { return role },
		"currentEmail": func() string { return email },
		"isLoggedIn":   func() bool { return role != "" },
		"isAdmin":      func() bool { return role == "admin" },
		"csrfToken":    func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"joinDays": func(days []string) string { return strings.Join(days, ", ") },
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// handleLoginPage renders the login form.
func handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "login.html", map[string]any{})
}

// handleLoginSubmit validates credentials and opens a session.
func handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}, orchestrators.LoginDeps{AccountStore: stores.AccountStore})
	if err != nil {
		renderTemplate(w, r, "login.html", map[string]any{"Error": err.Error()})
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout closes the session.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("resiplan_session"); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleBoard renders the weekly board: reconciles the requested week, then
// filters, groups and summarizes it for display.
func handleBoard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := timeNow()

	weekStart := r.URL.Query().Get("week")
	if weekStart == "" {
		weekStart = week.WeekStart(now)
	}

	state, err := orchestrators.ExecuteReconcileWeek(ctx, orchestrators.ReconcileWeekInput{
		WeekStart: weekStart,
	}, orchestrators.ReconcileWeekDeps{
		ResidenciaStore: stores.ResidenciaStore,
		ChecklistStore:  stores.ChecklistStore,
	})
	if err != nil {
		if err == orchestrators.ErrNotAWeekStart || err == week.ErrInvalidDate {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		internalError(w, err)
		return
	}

	fp := listutil.ParseFilterParams(r.URL.Query(), []string{"mode"})
	mode := projections.ParseMode(fp.Filters["mode"])

	rows := projections.Rows(state)
	summary := projections.Summarize(rows)

	rows = projections.Filter(rows, mode, now)
	if fp.Search != "" {
		var matched []projections.BoardRow
		for _, row := range rows {
			if listutil.MatchesSearch(fp.Search, row.Residencia.Name) {
				matched = append(matched, row)
			}
		}
		rows = matched
	}
	groups := projections.GroupByDeliveryDay(rows)

	prevWeek, _ := week.AddDays(state.WeekStart, -7)
	nextWeek, _ := week.AddDays(state.WeekStart, 7)

	if isHTMLRequest(r) {
		renderTemplate(w, r, "board.html", map[string]any{
			"WeekStart": state.WeekStart,
			"PrevWeek":  prevWeek,
			"NextWeek":  nextWeek,
			"Today":     week.Today(now),
			"Mode":      string(mode),
			"Search":    fp.Search,
			"Groups":    groups,
			"Summary":   summary,
		})
		return
	}

	writeJSON(w, map[string]any{
		"weekStart": state.WeekStart,
		"summary":   summary,
		"groups":    boardGroupsJSON(groups),
	})
}

// entryJSON is the wire shape of a checklist entry.
type entryJSON struct {
	ID           string  `json:"id"`
	ResidenciaID string  `json:"residenciaId"`
	WeekStart    string  `json:"weekStart"`
	ChangesDone  bool    `json:"changesDone"`
	Reviewed     bool    `json:"reviewed"`
	Packed       bool    `json:"packed"`
	PrepDate     *string `json:"prepDate"`
	DeliverDate  *string `json:"deliverDate"`
	Notes        *string `json:"notes"`
	UpdatedAt    string  `json:"updatedAt"`
}

func toEntryJSON(e checklist.Entry) entryJSON {
	return entryJSON{
		ID:           e.ID,
		ResidenciaID: e.ResidenciaID,
		WeekStart:    e.WeekStart,
		ChangesDone:  e.ChangesDone,
		Reviewed:     e.Reviewed,
		Packed:       e.Packed,
		PrepDate:     e.PrepDate,
		DeliverDate:  e.DeliverDate,
		Notes:        e.Notes,
		UpdatedAt:    e.UpdatedAt.Format(time.RFC3339),
	}
}

type boardRowJSON struct {
	ResidenciaID string    `json:"residenciaId"`
	Name         string    `json:"name"`
	Patients     int       `json:"patients"`
	Floors       int       `json:"floors"`
	PrepDate     string    `json:"prepDate"`
	DeliverDate  string    `json:"deliverDate"`
	Entry        entryJSON `json:"entry"`
}

func boardGroupsJSON(groups []projections.DayGroup) []map[string]any {
	out := make([]map[string]any, 0, len(groups))
	for _, g := range groups {
		rows := make([]boardRowJSON, 0, len(g.Rows))
		for _, row := range g.Rows {
			rows = append(rows, boardRowJSON{
				ResidenciaID: row.Residencia.ID,
				Name:         row.Residencia.Name,
				Patients:     row.Residencia.Patients,
				Floors:       row.Residencia.Floors,
				PrepDate:     row.PrepDate,
				DeliverDate:  row.DeliverDate,
				Entry:        toEntryJSON(row.Entry),
			})
		}
		out = append(out, map[string]any{"day": g.Day, "rows": rows})
	}
	return out
}

// handleChecklistUpdate applies a partial edit to one week entry.
func handleChecklistUpdate(w http.ResponseWriter, r *http.Request) {
	var patch checklist.Patch
	if err := strictDecode(r, &patch); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	stored, err := orchestrators.ExecuteUpdateEntry(r.Context(), orchestrators.UpdateEntryInput{
		ResidenciaID: r.PathValue("residenciaID"),
		WeekStart:    r.PathValue("weekStart"),
		Patch:        patch,
	}, orchestrators.UpdateEntryDeps{
		ResidenciaStore: stores.ResidenciaStore,
		ChecklistStore:  stores.ChecklistStore,
	})
	if err != nil {
		if err == checklist.ErrInvalidWeekStart || err == checklist.ErrEmptyResidenciaID {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, toEntryJSON(stored))
}

// handleWorkloadUpdate adjusts the patient and floor counts of a residencia.
func handleWorkloadUpdate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Patients int `json:"patients"`
		Floors   int `json:"floors"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	updated, err := orchestrators.ExecuteUpdateWorkload(r.Context(), orchestrators.UpdateWorkloadInput{
		ResidenciaID: r.PathValue("id"),
		Patients:     input.Patients,
		Floors:       input.Floors,
	}, orchestrators.UpdateWorkloadDeps{ResidenciaStore: stores.ResidenciaStore})
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, map[string]any{
		"id":       updated.ID,
		"patients": updated.Patients,
		"floors":   updated.Floors,
	})
}

// handleAdminResidencias renders the catalog management page.
func handleAdminResidencias(w http.ResponseWriter, r *http.Request) {
	catalog, err := stores.ResidenciaStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	fp := listutil.ParseFilterParams(r.URL.Query(), nil)
	if fp.Search != "" {
		var matched []residencia.Residencia
		for _, res := range catalog {
			if listutil.MatchesSearch(fp.Search, res.Name) {
				matched = append(matched, res)
			}
		}
		catalog = matched
	}

	renderTemplate(w, r, "residencias.html", map[string]any{
		"Residencias": catalog,
		"Search":      fp.Search,
		"WeekDays":    week.Order,
	})
}

// handleAdminResidenciaSave creates or updates a catalog entry from the form.
func handleAdminResidenciaSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	patients, _ := strconv.Atoi(r.FormValue("patients"))
	floors, _ := strconv.Atoi(r.FormValue("floors"))
	patients, floors = residencia.ClampWorkload(patients, floors)
	offset, _ := strconv.Atoi(r.FormValue("biweekly_offset"))

	input := orchestrators.SaveResidenciaInput{
		Residencia: residencia.Residencia{
			ID:               r.FormValue("id"),
			Name:             strings.TrimSpace(r.FormValue("name")),
			FixedDeliveryDay: r.FormValue("delivery_day"),
			Biweekly:         r.FormValue("biweekly") == "on",
			BiweeklyOffset:   offset,
			PrepOnDays:       r.Form["prep_days"],
			Patients:         patients,
			Floors:           floors,
		},
	}

	_, err := orchestrators.ExecuteSaveResidencia(r.Context(), input,
		orchestrators.SaveResidenciaDeps{ResidenciaStore: stores.ResidenciaStore})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/admin/residencias", http.StatusSeeOther)
}

// handleAdminResidenciaDelete removes a residencia and its week entries.
func handleAdminResidenciaDelete(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteResidencia(r.Context(), r.PathValue("id"),
		orchestrators.SaveResidenciaDeps{ResidenciaStore: stores.ResidenciaStore})
	if err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/admin/residencias", http.StatusSeeOther)
}

// handleAdminDigest sends the current week's digest on demand.
func handleAdminDigest(w http.ResponseWriter, r *http.Request) {
	if emailSender == nil || len(digestRecipients) == 0 {
		http.Error(w, "digest is not configured", http.StatusConflict)
		return
	}

	result, err := orchestrators.ExecuteWeekDigest(r.Context(), orchestrators.WeekDigestInput{
		WeekStart:  week.WeekStart(timeNow()),
		Recipients: digestRecipients,
	}, orchestrators.WeekDigestDeps{
		ResidenciaStore: stores.ResidenciaStore,
		ChecklistStore:  stores.ChecklistStore,
		Sender:          emailSender,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, map[string]any{"messageId": result.MessageID})
}

// handleAdminPerf returns the aggregated performance snapshot.
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		http.Error(w, "perf collection disabled", http.StatusConflict)
		return
	}
	writeJSON(w, perfCollector.Snapshot(timeNow().Add(-time.Hour), 10))
}
