package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the public and authenticated endpoints on r.
// authenticate guards every /api/education route.
func RegisterRoutes(
	r chi.Router,
	math *MathHandler,
	authHandler *AuthHandler,
	authenticate func(http.Handler) http.Handler,
) {
	r.Get("/health", Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/refresh", authHandler.RefreshToken)

		r.Route("/education/math", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/problems", math.GetProblems)
			r.Get("/problems/{batch_id}/remaining", math.GetRemaining)
			r.Post("/check", math.CheckAnswer)
			r.Post("/explain", math.Explain)
			r.Get("/similar", math.GetSimilar)
		})
	})
}
