package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, hub *Hub, userID string) *Client {
	t.Helper()
	client := &Client{hub: hub, send: make(chan []byte, 16), userID: userID}
	hub.register <- client
	return client
}

func drain(client *Client) []Envelope {
	var out []Envelope
	for {
		select {
		case data := <-client.send:
			var envelope Envelope
			if err := json.Unmarshal(data, &envelope); err == nil {
				out = append(out, envelope)
			}
		default:
			return out
		}
	}
}

func TestHub_NotifyUsers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := register(t, hub, "u-alice")
	bob := register(t, hub, "u-bob")

	// registration goes through the run loop; wait for it to land
	require.Eventually(t, func() bool {
		return hub.ClientCount("u-alice") == 1 && hub.ClientCount("u-bob") == 1
	}, time.Second, time.Millisecond)

	hub.NotifyUsers([]string{"u-alice"}, map[string]string{"title": "hello"})

	aliceGot := drain(alice)
	require.Len(t, aliceGot, 1)
	assert.Equal(t, "notification", aliceGot[0].Type)
	assert.Empty(t, drain(bob))
}

func TestHub_NotifyAll(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := register(t, hub, "u-alice")
	bob := register(t, hub, "u-bob")

	require.Eventually(t, func() bool {
		return hub.ClientCount("u-alice") == 1 && hub.ClientCount("u-bob") == 1
	}, time.Second, time.Millisecond)

	hub.NotifyAll(map[string]string{"title": "everyone"})

	assert.Len(t, drain(alice), 1)
	assert.Len(t, drain(bob), 1)
}

func TestHub_UnknownUserIsSkipped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// no clients registered; must not panic or block
	hub.NotifyUsers([]string{"nobody"}, map[string]string{"title": "void"})
	assert.Zero(t, hub.ClientCount("nobody"))
}
