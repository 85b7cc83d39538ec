package handlers

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-draw/internal/draw"
	"github.com/mauv0809/shuttle-draw/internal/matchmaking"
)

// RoundResponse is returned after a round was requested.
type RoundResponse struct {
	matchmaking.SessionView
	Diagnostics draw.Diagnostics `json:"diagnostics"`
}

func respondWithView(w http.ResponseWriter, status int, view matchmaking.SessionView, err error) {
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, status, view)
}

func GetSessionHandler(svc matchmaking.DrawService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Today(r.Context())
		respondWithView(w, http.StatusOK, view, err)
	}
}

func AddMemberHandler(svc matchmaking.DrawService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			MemberID string `json:"member_id"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.MemberID == "" {
			http.Error(w, "member_id is required", http.StatusBadRequest)
			return
		}
		log.Info("Adding member to draw", "memberID", body.MemberID)
		view, err := svc.AddMember(r.Context(), body.MemberID)
		respondWithView(w, http.StatusCreated, view, err)
	}
}

func parseGender(s string) (draw.Gender, error) {
	switch draw.Gender(s) {
	case "", draw.Male:
		return draw.Male, nil
	case draw.Female:
		return draw.Female, nil
	default:
		return "", fmt.Errorf("gender must be %q or %q", draw.Male, draw.Female)
	}
}

func AddGuestHandler(svc matchmaking.DrawService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name   string `json:"name"`
			Gender string `json:"gender"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		gender, err := parseGender(body.Gender)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Info("Adding guest to draw", "name", body.Name, "gender", gender)
		view, err := svc.AddGuest(r.Context(), body.Name, gender)
		respondWithView(w, http.StatusCreated, view, err)
	}
}

func RemoveAttendeeHandler(svc matchmaking.DrawService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		log.Info("Removing attendee", "id", id)
		view, err := svc.RemoveAttendee(r.Context(), id)
		respondWithView(w, http.StatusOK, view, err)
	}
}

func SetRankHandler(svc matchmaking.DrawService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Rank int `json:"rank"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		view, err := svc.SetRank(r.Context(), r.PathValue("id"), body.Rank)
		respondWithView(w, http.StatusOK, view, err)
	}
}

func MoveRankHandler(svc matchmaking.DrawService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Direction draw.Direction `json:"direction"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Direction != draw.Up && body.Direction != draw.Down {
			http.Error(w, `direction must be "up" or "down"`, http.StatusBadRequest)
			return
		}
		view, err := svc.MoveRank(r.Context(), r.PathValue("id"), body.Direction)
		respondWithView(w, http.StatusOK, view, err)
	}
}

func SetLateHandler(svc matchmaking.DrawService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Games int `json:"games"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Games < 0 {
			http.Error(w, "games must not be negative", http.StatusBadRequest)
			return
		}
		view, err := svc.SetLate(r.Context(), r.PathValue("id"), body.Games)
		respondWithView(w, http.StatusOK, view, err)
	}
}

func ClearLateHandler(svc matchmaking.DrawService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.ClearLate(r.Context(), r.PathValue("id"))
		respondWithView(w, http.StatusOK, view, err)
	}
}

func SetCourtsHandler(svc matchmaking.DrawService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Courts int `json:"courts"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Courts < 1 {
			http.Error(w, "courts must be at least 1", http.StatusBadRequest)
			return
		}
		view, err := svc.SetCourtCount(r.Context(), body.Courts)
		respondWithView(w, http.StatusOK, view, err)
	}
}

func GenerateRoundHandler(svc matchmaking.DrawService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := IsDryRunFromContext(r)
		view, diag, err := svc.GenerateNextRound(r.Context(), isDryRun)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, RoundResponse{SessionView: view, Diagnostics: diag})
	}
}

func ResetHandler(svc matchmaking.DrawService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Resetting today's draw")
		view, err := svc.Reset(r.Context())
		respondWithView(w, http.StatusOK, view, err)
	}
}
