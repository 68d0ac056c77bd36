package middleware

import (
	"net/http"

	"github.com/mitrakarya/workforce-backend-go/internal/handler/http/response"
	"github.com/mitrakarya/workforce-backend-go/internal/pkg/jwt"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := jwt.ClaimsFromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "Missing access token")
			return
		}
		if claims.Role != "admin" {
			response.Forbidden(w, "Admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
