package pubsub

import (
	"testing"
	"time"

	"github.com/mauv0809/shuttle-draw/internal/draw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() RoundGeneratedEvent {
	a := draw.NewMemberAttendee("m1", "Kim", nil, draw.Male)
	b := draw.NewMemberAttendee("m2", "Park", nil, draw.Male)
	c := draw.NewMemberAttendee("m3", "Lee", nil, draw.Male)
	d := draw.NewMemberAttendee("m4", "Choi", nil, draw.Male)
	return RoundGeneratedEvent{
		Date:  "2024-05-04",
		Round: 1,
		Matches: []draw.GeneratedMatch{{
			Round: 1,
			Court: 1,
			Team1: [2]draw.Attendee{a, d},
			Team2: [2]draw.Attendee{b, c},
			Type:  draw.MatchTypeMen,
		}},
	}
}

func TestLocalClient_DeliversEncodedMessage(t *testing.T) {
	type delivery struct {
		topic EventType
		data  []byte
	}
	received := make(chan delivery, 1)
	c := NewLocal(func(topic EventType, data []byte) error {
		received <- delivery{topic, data}
		return nil
	})
	defer c.Close()

	want := sampleEvent()
	require.NoError(t, c.SendMessage(EventRoundGenerated, want))

	select {
	case d := <-received:
		assert.Equal(t, EventRoundGenerated, d.topic)
		var got RoundGeneratedEvent
		require.NoError(t, c.ProcessMessage(d.data, &got))
		assert.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatal("local handler was not called")
	}
}

func TestProcessMessage_InvalidPayload(t *testing.T) {
	c := NewLocal(func(EventType, []byte) error { return nil })

	var got RoundGeneratedEvent
	assert.Error(t, c.ProcessMessage([]byte{0xc1}, &got))
}
