package web

import (
	"net/http"

	"resiplan/internal/adapters/http/middleware"
	"resiplan/internal/domain/account"
)

// registerRoutes attaches all application routes to the mux.
// Authentication is layered per route: the board and checklist API need any
// signed-in account, catalog management needs the admin role.
func registerRoutes(mux *http.ServeMux) {
	requireAdmin := middleware.RequireRole(account.RoleAdmin)

	mux.HandleFunc("GET /login", handleLoginPage)
	mux.HandleFunc("POST /login", handleLoginSubmit)
	mux.HandleFunc("POST /logout", handleLogout)

	mux.Handle("GET /{$}", middleware.RequireAuth(http.HandlerFunc(handleBoard)))
	mux.Handle("POST /api/checklist/{residenciaID}/{weekStart}",
		middleware.RequireAuth(http.HandlerFunc(handleChecklistUpdate)))
	mux.Handle("POST /api/residencias/{id}/workload",
		middleware.RequireAuth(http.HandlerFunc(handleWorkloadUpdate)))

	mux.Handle("GET /admin/residencias", requireAdmin(http.HandlerFunc(handleAdminResidencias)))
	mux.Handle("POST /admin/residencias", requireAdmin(http.HandlerFunc(handleAdminResidenciaSave)))
	mux.Handle("POST /admin/residencias/{id}/delete", requireAdmin(http.HandlerFunc(handleAdminResidenciaDelete)))
	mux.Handle("POST /admin/digest", requireAdmin(http.HandlerFunc(handleAdminDigest)))
	mux.Handle("GET /admin/perf", requireAdmin(http.HandlerFunc(handleAdminPerf)))
}
