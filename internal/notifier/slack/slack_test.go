package slack

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/shuttle-draw/internal/draw"
	"github.com/mauv0809/shuttle-draw/internal/metrics"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func attendee(id, name string, gender draw.Gender) draw.Attendee {
	return draw.NewMemberAttendee(id, name, nil, gender)
}

func menMatch() draw.GeneratedMatch {
	return draw.GeneratedMatch{
		Round: 2,
		Court: 1,
		Team1: [2]draw.Attendee{attendee("m1", "Kim", draw.Male), attendee("m4", "Choi", draw.Male)},
		Team2: [2]draw.Attendee{attendee("m2", "Park", draw.Male), attendee("m3", "Lee", draw.Male)},
		Type:  draw.MatchTypeMen,
	}
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	_, _, err := notifier.sendMessage(slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestSendRoundNotification_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}
	notifier := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	err := notifier.SendRoundNotification("2024-05-04", 2, []draw.GeneratedMatch{menMatch()}, false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendRoundNotification")
}

func TestFormatRoundNotification(t *testing.T) {
	mixed := draw.GeneratedMatch{
		Round: 2,
		Court: 2,
		Team1: [2]draw.Attendee{attendee("m5", "Jung", draw.Male), attendee("f2", "Han", draw.Female)},
		Team2: [2]draw.Attendee{attendee("m6", "Yoon", draw.Male), attendee("f1", "Seo", draw.Female)},
		Type:  draw.MatchTypeMixed,
	}
	nick := "Smash"
	mixed.Team1[0].Nickname = &nick

	client := &Notifier{channelID: "C123"}
	msg := client.formatRoundNotification("2024-05-04", 2, []draw.GeneratedMatch{menMatch(), mixed})
	require.Len(t, msg.Blocks.BlockSet, 4, "Expected header, two matches and context")

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "First block should be a HeaderBlock")
	assert.Equal(t, "🏸 Round 2 🏸", header.Text.Text)

	court1, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Court 1 · Men's doubles\nKim & Choi  vs  Park & Lee", court1.Text.Text)

	court2, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Court 2 · Mixed doubles\nSmash & Han  vs  Yoon & Seo", court2.Text.Text, "nicknames are preferred")

	contextBlock, ok := msg.Blocks.BlockSet[3].(*slackapi.ContextBlock)
	require.True(t, ok)
	require.Len(t, contextBlock.ContextElements.Elements, 1)
	dateElement, ok := contextBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Equal(t, "Draw of 2024-05-04", dateElement.Text)
}

func TestFormatRoundResponse_WithSkips(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	resp, err := client.FormatRoundResponse(1, nil, []draw.CourtSkip{{Court: 1, Reason: draw.SkipNoMatchType}})
	require.NoError(t, err)

	msg, ok := resp.(slackapi.Message)
	require.True(t, ok)
	assert.Equal(t, slackapi.ResponseTypeInChannel, msg.ResponseType)
	require.Len(t, msg.Blocks.BlockSet, 3)

	empty, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "No court could be filled this round.", empty.Text.Text)

	skips, ok := msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
	require.True(t, ok)
	skip, ok := skips.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Equal(t, "Court 1 left empty: no valid match type", skip.Text)
}

func TestFormatSession(t *testing.T) {
	t.Run("empty roster", func(t *testing.T) {
		client := &Notifier{channelID: "C123"}
		msg := client.formatSession(draw.NewSession("2024-05-04", 2))
		require.Len(t, msg.Blocks.BlockSet, 3)

		summary, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		require.Len(t, summary.Fields, 3)
		assert.Equal(t, "Attendees: 0 (0 M / 0 F)", summary.Fields[0].Text)
		assert.Equal(t, "Courts: 2", summary.Fields[1].Text)

		empty, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "Nobody has checked in yet.", empty.Text.Text)
	})

	t.Run("roster and latest round", func(t *testing.T) {
		s := draw.NewSession("2024-05-04", 1)
		s.AddMember(attendee("m1", "Kim", draw.Male))
		s.AddMember(attendee("m2", "Park", draw.Male))
		s.AddMember(attendee("m3", "Lee", draw.Male))
		s.AddMember(attendee("m4", "Choi", draw.Male))
		_, err := s.AddGuest("Walk In", draw.Female)
		require.NoError(t, err)
		s.SetLate("m4", 1)
		s, _, err = draw.GenerateNextRound(s)
		require.NoError(t, err)

		client := &Notifier{channelID: "C123"}
		msg := client.formatSession(s)
		// header, summary, roster, divider, round header, one match
		require.Len(t, msg.Blocks.BlockSet, 6)

		summary := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		assert.Equal(t, "Attendees: 5 (4 M / 1 F)", summary.Fields[0].Text)
		assert.Equal(t, "Round: 1", summary.Fields[2].Text)

		roster := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		assert.Contains(t, roster.Text.Text, "1. Kim (")
		assert.Contains(t, roster.Text.Text, "late +1")
		assert.Contains(t, roster.Text.Text, "5. Walk In (0 games) · guest")

		_, ok := msg.Blocks.BlockSet[3].(*slackapi.DividerBlock)
		assert.True(t, ok)
		roundHeader := msg.Blocks.BlockSet[4].(*slackapi.HeaderBlock)
		assert.Equal(t, "🏸 Round 1 🏸", roundHeader.Text.Text)
	})
}

func TestFormatErrorResponse(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	resp, err := client.FormatErrorResponse("Need at least 4 players.")
	require.NoError(t, err)

	msg, ok := resp.(slackapi.Message)
	require.True(t, ok)
	assert.Equal(t, slackapi.ResponseTypeEphemeral, msg.ResponseType)
	section := msg.Blocks.BlockSet[0].(*slackapi.SectionBlock)
	assert.Equal(t, "⚠️ Need at least 4 players.", section.Text.Text)
}
