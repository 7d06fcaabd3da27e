package httpserver

import (
	"net/http"
	"time"

	"pet-custody-go/internal/config"
	"pet-custody-go/internal/transport/httpserver/handler"
	authmw "pet-custody-go/internal/transport/httpserver/middleware"
	"pet-custody-go/pkg/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS([]string{"http://localhost:5173"}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewJWTAuth(cfg.Auth, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Post("/pets", handlers.CreatePet)
			r.Get("/pets", handlers.ListMyPets)
			r.Get("/pets/{pet_id}", handlers.GetPet)
			r.Post("/pets/{pet_id}/archive", handlers.ArchivePet)

			r.Get("/pets/{pet_id}/relationships", handlers.ListPetRelationships)
			r.Get("/relationships/me", handlers.ListMyRelationships)
			r.Delete("/pets/{pet_id}/relationships/{user_id}/{type}", handlers.RevokeRelationship)
			r.Post("/pets/{pet_id}/relationships/leave", handlers.LeaveRelationship)

			r.Post("/pets/{pet_id}/invitations", handlers.CreateInvitation)
			r.Get("/pets/{pet_id}/invitations", handlers.ListPetInvitations)
			r.Post("/invitations/redeem", handlers.RedeemInvitation)
			r.Post("/invitations/decline", handlers.DeclineInvitation)
			r.Post("/invitations/{invitation_id}/revoke", handlers.RevokeInvitation)

			r.Post("/pets/{pet_id}/placement-requests", handlers.CreatePlacementRequest)
			r.Get("/pets/{pet_id}/placement-requests", handlers.ListPetPlacementRequests)
			r.Get("/placement-requests", handlers.ListMyPlacementRequests)
			r.Get("/placement-requests/{request_id}", handlers.GetPlacementRequest)
			r.Post("/placement-requests/{request_id}/cancel", handlers.CancelPlacementRequest)

			r.Post("/placement-requests/{request_id}/responses", handlers.CreateResponse)
			r.Get("/placement-requests/{request_id}/responses", handlers.ListResponses)
			r.Post("/responses/{response_id}/accept", handlers.AcceptResponse)
			r.Post("/responses/{response_id}/reject", handlers.RejectResponse)
			r.Post("/responses/{response_id}/cancel", handlers.CancelResponse)

			r.Get("/transfers/{transfer_id}", handlers.GetTransfer)
			r.Post("/transfers/{transfer_id}/confirm", handlers.ConfirmTransfer)
			r.Post("/transfers/{transfer_id}/reject", handlers.RejectTransfer)
			r.Post("/transfers/{transfer_id}/cancel", handlers.CancelTransfer)
			r.Post("/transfers/{transfer_id}/handovers", handlers.ScheduleHandover)
			r.Get("/transfers/{transfer_id}/handovers", handlers.ListHandovers)

			r.Get("/handovers/{handover_id}", handlers.GetHandover)
			r.Patch("/handovers/{handover_id}", handlers.RescheduleHandover)
			r.Post("/handovers/{handover_id}/initiate", handlers.InitiateHandover)
			r.Post("/handovers/{handover_id}/confirm", handlers.ConfirmReceipt)
			r.Post("/handovers/{handover_id}/cancel", handlers.CancelHandover)

			r.Post("/admin/sweep", handlers.Sweep)
		})
	})

	return r
}
