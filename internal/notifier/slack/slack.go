package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-draw/internal/draw"
	"github.com/mauv0809/shuttle-draw/internal/metrics"
	"github.com/mauv0809/shuttle-draw/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendRoundNotification announces the court assignments of a round in the club channel.
func (s *Notifier) SendRoundNotification(date string, round int, matches []draw.GeneratedMatch, dryRun bool) error {
	msg := s.formatRoundNotification(date, round, matches)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatSessionResponse formats the current draw for a slash command response.
func (s *Notifier) FormatSessionResponse(sess draw.Session) (any, error) {
	return s.formatSession(sess), nil
}

// FormatRoundResponse formats a freshly drawn round for a slash command response.
func (s *Notifier) FormatRoundResponse(round int, matches []draw.GeneratedMatch, skipped []draw.CourtSkip) (any, error) {
	msg := slack.NewBlockMessage(append(roundBlocks(round, matches), skipBlocks(skipped)...)...)
	msg.ResponseType = slack.ResponseTypeInChannel
	return msg, nil
}

// FormatErrorResponse formats a message only the caller of the command sees.
func (s *Notifier) FormatErrorResponse(text string) (any, error) {
	msg := slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "⚠️ "+text, true, false), nil, nil),
	)
	msg.ResponseType = slack.ResponseTypeEphemeral
	return msg, nil
}

// formatRoundNotification creates the Slack message for a committed round using Block Kit.
func (s *Notifier) formatRoundNotification(date string, round int, matches []draw.GeneratedMatch) slack.Message {
	blocks := roundBlocks(round, matches)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", "Draw of "+date, true, false)))
	return slack.NewBlockMessage(blocks...)
}

func roundBlocks(round int, matches []draw.GeneratedMatch) []slack.Block {
	blocks := make([]slack.Block, 0, len(matches)+1)

	// Header - The Header block itself provides bolding.
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏸 Round %d 🏸", round), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(matches) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No court could be filled this round.", true, false), nil, nil))
		return blocks
	}

	for _, m := range matches {
		text := fmt.Sprintf("Court %d · %s\n%s  vs  %s", m.Court, matchTypeLabel(m.Type), teamName(m.Team1), teamName(m.Team2))
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil))
	}
	return blocks
}

func skipBlocks(skipped []draw.CourtSkip) []slack.Block {
	if len(skipped) == 0 {
		return nil
	}
	elements := make([]slack.MixedElement, 0, len(skipped))
	for _, skip := range skipped {
		text := fmt.Sprintf("Court %d left empty: %s", skip.Court, skipReasonLabel(skip.Reason))
		elements = append(elements, slack.NewTextBlockObject("plain_text", text, true, false))
	}
	return []slack.Block{slack.NewContextBlock("", elements...)}
}

// formatSession creates a summary of the roster and the latest round.
func (s *Notifier) formatSession(sess draw.Session) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏸 Draw for "+sess.Date+" 🏸", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	males, females := sess.GenderCounts()
	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Attendees: %d (%d M / %d F)", len(sess.Attendees), males, females), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Courts: %d", sess.CourtCount), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Round: %d", sess.CurrentRound), true, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	if len(sess.Attendees) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Nobody has checked in yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	lines := make([]string, 0, len(sess.Attendees))
	for _, a := range sess.Attendees {
		line := fmt.Sprintf("%d. %s (%d games)", a.Rank, a.DisplayName(), a.GamesPlayed)
		if a.IsGuest() {
			line += " · guest"
		}
		if a.IsLate {
			line += fmt.Sprintf(" · late +%d", a.GamesBeforeArrival)
		}
		lines = append(lines, line)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	if rounds := sess.Rounds(); len(rounds) > 0 {
		latest := rounds[len(rounds)-1]
		blocks = append(blocks, slack.NewDividerBlock())
		blocks = append(blocks, roundBlocks(latest.Number, latest.Matches)...)
	}

	return slack.NewBlockMessage(blocks...)
}

func teamName(team [2]draw.Attendee) string {
	return team[0].DisplayName() + " & " + team[1].DisplayName()
}

func matchTypeLabel(t draw.MatchType) string {
	switch t {
	case draw.MatchTypeMen:
		return "Men's doubles"
	case draw.MatchTypeWomen:
		return "Women's doubles"
	case draw.MatchTypeMixed:
		return "Mixed doubles"
	default:
		return string(t)
	}
}

func skipReasonLabel(r draw.SkipReason) string {
	switch r {
	case draw.SkipNotEnoughPlayers:
		return "not enough players"
	case draw.SkipNoMatchType:
		return "no valid match type"
	case draw.SkipDuplicateSelected:
		return "not enough distinct players"
	default:
		return string(r)
	}
}
