package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var guestGender string

func init() {
	addGuestCmd.Flags().StringVar(&guestGender, "gender", "male", "Gender of the guest (male or female)")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(addMemberCmd)
	rootCmd.AddCommand(addGuestCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(lateCmd)
	rootCmd.AddCommand(courtsCmd)
	rootCmd.AddCommand(nextRoundCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var membersCmd = &cobra.Command{
	Use:   "members [search]",
	Short: "List active members that are not in today's draw",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/members"
		if len(args) == 1 {
			endpoint += "?q=" + url.QueryEscape(args[0])
		}
		return performRequest(http.MethodGet, endpoint, nil)
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show today's draw",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/session", nil)
	},
}

var addMemberCmd = &cobra.Command{
	Use:   "add-member <member-id>",
	Short: "Check a club member in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/session/members", map[string]string{"member_id": args[0]})
	},
}

var addGuestCmd = &cobra.Command{
	Use:   "add-guest <name>",
	Short: "Check a guest in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/session/guests", map[string]string{"name": args[0], "gender": guestGender})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <attendee-id>",
	Short: "Remove an attendee from today's draw",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, "/session/attendees/"+url.PathEscape(args[0]), nil)
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank <attendee-id> <rank>",
	Short: "Move an attendee to a queue position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rank, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid rank %q: %w", args[1], err)
		}
		return performRequest(http.MethodPut, "/session/attendees/"+url.PathEscape(args[0])+"/rank", map[string]int{"rank": rank})
	},
}

var moveCmd = &cobra.Command{
	Use:       "move <attendee-id> <up|down>",
	Short:     "Swap an attendee with its neighbour in the queue",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/session/attendees/"+url.PathEscape(args[0])+"/move", map[string]string{"direction": args[1]})
	},
}

var lateCmd = &cobra.Command{
	Use:   "late <attendee-id> [games]",
	Short: "Mark an attendee late with the games already played, or clear it when games is omitted",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/session/attendees/" + url.PathEscape(args[0]) + "/late"
		if len(args) == 1 {
			return performRequest(http.MethodDelete, endpoint, nil)
		}
		games, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid games %q: %w", args[1], err)
		}
		return performRequest(http.MethodPut, endpoint, map[string]int{"games": games})
	},
}

var courtsCmd = &cobra.Command{
	Use:   "courts <n>",
	Short: "Set the number of courts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		courts, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid court count %q: %w", args[0], err)
		}
		return performRequest(http.MethodPut, "/session/courts", map[string]int{"courts": courts})
	},
}

var nextRoundCmd = &cobra.Command{
	Use:   "next-round",
	Short: "Draw the next round",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/session/rounds", nil)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear today's rounds and counters, keeping the attendees",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/session/reset", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

func performRequest(method, endpoint string, payload any) error {
	u, err := url.Parse(host + endpoint)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if dryRun {
		q := u.Query()
		q.Set("dry_run", "true")
		u.RawQuery = q.Encode()
	}
	fmt.Printf("Making %s request to %s\n", method, u)

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
