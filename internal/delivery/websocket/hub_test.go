package websocket

import (
	"testing"

	"github.com/abreuwilliam/Desafio/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(topic string) *Client {
	return &Client{Topic: topic, Send: make(chan []byte, clientSendBuffer)}
}

func TestHubBroadcastScopedByTopic(t *testing.T) {
	hub := NewHub()

	dashboard := newClient(service.DashboardChannel)
	p1 := newClient(service.PatientChannelPrefix + "P1")
	p2 := newClient(service.PatientChannelPrefix + "P2")

	hub.Register(dashboard)
	hub.Register(p1)
	hub.Register(p2)

	payload := []byte(`{"patientId":"P1"}`)
	hub.Broadcast(service.DashboardChannel, payload)
	hub.Broadcast(service.PatientChannelPrefix+"P1", payload)

	require.Len(t, dashboard.Send, 1)
	assert.Equal(t, payload, <-dashboard.Send)

	require.Len(t, p1.Send, 1)
	assert.Equal(t, payload, <-p1.Send)

	assert.Empty(t, p2.Send, "other patients' subscribers receive nothing")
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub()

	client := newClient(service.DashboardChannel)
	hub.Register(client)
	require.Equal(t, 1, hub.SubscriberCount(service.DashboardChannel))

	hub.Unregister(client)
	assert.Equal(t, 0, hub.SubscriberCount(service.DashboardChannel))

	_, open := <-client.Send
	assert.False(t, open, "send channel must be closed on unregister")

	// Double unregister is a no-op.
	hub.Unregister(client)
}

func TestHubSkipsSlowClients(t *testing.T) {
	hub := NewHub()

	slow := &Client{Topic: service.DashboardChannel, Send: make(chan []byte, 1)}
	hub.Register(slow)

	hub.Broadcast(service.DashboardChannel, []byte("first"))
	hub.Broadcast(service.DashboardChannel, []byte("second"))

	// Only the first fits; the second is dropped, not blocked on.
	require.Len(t, slow.Send, 1)
	assert.Equal(t, []byte("first"), <-slow.Send)
}

func TestHubBroadcastToEmptyTopic(t *testing.T) {
	hub := NewHub()
	// Subscriber absence is not an error.
	hub.Broadcast(service.DashboardChannel, []byte("payload"))
}
