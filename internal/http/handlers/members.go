package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-draw/internal/matchmaking"
)

// ListMembersHandler lists active members that can still be added to today's draw.
// The optional q parameter filters by name or nickname.
func ListMembersHandler(svc matchmaking.DrawService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("q")
		members, err := svc.SearchMembers(r.Context(), term)
		if err != nil {
			log.Error("Failed to search members", "error", err, "q", term)
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, members)
	}
}
