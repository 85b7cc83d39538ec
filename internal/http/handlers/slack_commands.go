package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-draw/internal/draw"
	"github.com/mauv0809/shuttle-draw/internal/matchmaking"
	"github.com/mauv0809/shuttle-draw/internal/notifier"
)

const drawUsage = "Usage: /draw [status | next | reset | courts <n> | guest <name> [male|female]]"

// DrawCommandHandler serves the /draw Slack command. Slack shows any non-200
// answer as a failure, so problems are reported in an ephemeral message.
func DrawCommandHandler(svc matchmaking.DrawService, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		args := strings.Fields(r.FormValue("text"))
		sub := "status"
		if len(args) > 0 {
			sub = strings.ToLower(args[0])
			args = args[1:]
		}
		log.Info("Received draw command", "subcommand", sub, "args", args, "user", r.FormValue("user_name"))

		var (
			msg any
			err error
		)
		switch sub {
		case "status":
			var view matchmaking.SessionView
			if view, err = svc.Today(r.Context()); err == nil {
				msg, err = notifier.FormatSessionResponse(view.Session)
			}
		case "next":
			var diag draw.Diagnostics
			if _, diag, err = svc.GenerateNextRound(r.Context(), IsDryRunFromContext(r)); err == nil {
				msg, err = notifier.FormatRoundResponse(diag.Round, diag.Matches, diag.Skipped)
			}
		case "reset":
			var view matchmaking.SessionView
			if view, err = svc.Reset(r.Context()); err == nil {
				msg, err = notifier.FormatSessionResponse(view.Session)
			}
		case "courts":
			n := 0
			if len(args) == 1 {
				n, _ = strconv.Atoi(args[0])
			}
			if n < 1 {
				msg, err = notifier.FormatErrorResponse("Usage: /draw courts <n>, with n at least 1.")
				break
			}
			var view matchmaking.SessionView
			if view, err = svc.SetCourtCount(r.Context(), n); err == nil {
				msg, err = notifier.FormatSessionResponse(view.Session)
			}
		case "guest":
			gender := draw.Male
			if len(args) > 1 {
				if g, gerr := parseGender(strings.ToLower(args[len(args)-1])); gerr == nil {
					gender = g
					args = args[:len(args)-1]
				}
			}
			var view matchmaking.SessionView
			if view, err = svc.AddGuest(r.Context(), strings.Join(args, " "), gender); err == nil {
				msg, err = notifier.FormatSessionResponse(view.Session)
			}
		default:
			msg, err = notifier.FormatErrorResponse(drawUsage)
		}

		if err != nil {
			msg, err = commandError(notifier, err)
		}
		if err != nil {
			http.Error(w, "Failed to format response", http.StatusInternalServerError)
			log.Error("Failed to format draw command response", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// commandError turns a service error into a message for the caller.
func commandError(notifier notifier.Notifier, err error) (any, error) {
	switch {
	case errors.Is(err, draw.ErrInsufficientPlayers):
		return notifier.FormatErrorResponse("At least 4 players are needed to draw a round.")
	case errors.Is(err, draw.ErrEmptyGuestName):
		return notifier.FormatErrorResponse("Usage: /draw guest <name> [male|female]")
	default:
		log.Error("Draw command failed", "error", err)
		return notifier.FormatErrorResponse("Something went wrong, please try again.")
	}
}
