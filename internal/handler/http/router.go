package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/mitrakarya/workforce-backend-go/internal/handler/http/middleware"
	"github.com/mitrakarya/workforce-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	payrollHandler PayrollHandler,
	approvalHandler ApprovalHandler,
	loanHandler LoanHandler,
	auditHandler AuditHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workforce-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/batches", attendanceHandler.ProcessBatch)
				r.Get("/employees/{employeeID}", attendanceHandler.ListByEmployee)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Post("/generate", payrollHandler.Generate)
				r.Route("/{month}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetMonth)
					r.Get("/records", payrollHandler.ListRecords)
					r.Get("/cost-summaries", payrollHandler.ListCostSummaries)
					r.Post("/finalize", payrollHandler.Finalize)
					r.Post("/lock", payrollHandler.Lock)
				})
			})

			r.Route("/approvals", func(r chi.Router) {
				r.Post("/", approvalHandler.Create)
				r.Get("/mine", approvalHandler.ListMine)
				r.Get("/pending", approvalHandler.ListPending)
				r.Post("/delegations", approvalHandler.CreateDelegation)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", approvalHandler.Get)
					r.Post("/approve", approvalHandler.Approve)
					r.Post("/reject", approvalHandler.Reject)
					r.Post("/cancel", approvalHandler.Cancel)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/override", approvalHandler.AdminOverride)
						r.Post("/escalate", approvalHandler.Escalate)
					})
				})
			})

			r.Route("/loans", func(r chi.Router) {
				r.Post("/", loanHandler.Create)
				r.Get("/{id}", loanHandler.Get)
				r.Get("/employees/{employeeID}", loanHandler.ListByEmployee)
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/audit/{entityType}/{entityID}", auditHandler.ListByEntity)
			})
		})
	})
	return r
}
