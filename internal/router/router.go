package router

import (
	"net/http"

	"newsteps/internal/handler"
	"newsteps/internal/middleware"
	"newsteps/internal/model"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers the router serves.
type Handlers struct {
	Shoes     *handler.ShoeHandler
	Requests  *handler.RequestHandler
	Donations *handler.DonationHandler
	Settings  *handler.SettingsHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, jwtSecret string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	session := middleware.Session(jwtSecret, true, logger)
	optionalSession := middleware.Session(jwtSecret, false, logger)
	admin := func(next http.HandlerFunc) http.Handler {
		return session(middleware.RequireAdmin(logger)(next))
	}

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Public catalogue
	mux.HandleFunc("GET /api/shoes", h.Shoes.List)
	mux.HandleFunc("GET /api/shoes/{id}", h.Shoes.GetByID)

	// Requester flow
	mux.Handle("POST /api/requests", session(http.HandlerFunc(h.Requests.Submit)))
	mux.Handle("GET /api/requests", session(http.HandlerFunc(h.Requests.ListMine)))

	// Donations accept anonymous donors
	mux.Handle("POST /api/donations/shoes", optionalSession(http.HandlerFunc(h.Donations.SubmitShoes)))
	mux.Handle("POST /api/donations/money", optionalSession(http.HandlerFunc(h.Donations.SubmitMoney)))

	// Admin
	mux.Handle("POST /api/admin/shoes", admin(h.Shoes.Create))
	mux.Handle("PATCH /api/admin/shoes/{id}", admin(h.Shoes.Update))
	mux.Handle("DELETE /api/admin/shoes/{id}", admin(h.Shoes.Delete))
	mux.Handle("GET /api/admin/requests", admin(h.Requests.List))
	mux.Handle("PATCH /api/admin/requests", admin(h.Requests.UpdateStatus))
	mux.Handle("GET /api/admin/shoe-donations", admin(h.Donations.List(model.DonationShoes)))
	mux.Handle("PATCH /api/admin/shoe-donations", admin(h.Donations.UpdateStatus(model.DonationShoes)))
	mux.Handle("GET /api/admin/money-donations", admin(h.Donations.List(model.DonationMoney)))
	mux.Handle("PATCH /api/admin/money-donations", admin(h.Donations.UpdateStatus(model.DonationMoney)))
	mux.Handle("GET /api/admin/settings", admin(h.Settings.Get))
	mux.Handle("POST /api/admin/settings/reload", admin(h.Settings.Reload))

	// Apply middleware in order: Recovery -> Logging -> CORS
	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
