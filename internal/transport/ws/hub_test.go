package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func receive(t *testing.T, conn *Connection) Message {
	t.Helper()
	select {
	case data, ok := <-conn.Send:
		require.True(t, ok, "send channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message")
	}
	return Message{}
}

func TestHubBroadcastIsScopedToMunicipality(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	patos := &Connection{MunicipalityID: "patos", Send: make(chan []byte, 4)}
	sousa := &Connection{MunicipalityID: "sousa", Send: make(chan []byte, 4)}
	hub.Register(patos)
	hub.Register(sousa)
	require.Eventually(t, func() bool { return hub.Subscribers("patos") == 1 }, time.Second, time.Millisecond)

	hub.BroadcastToMunicipality("patos", "feedback_received", map[string]string{"id": "f1"})

	msg := receive(t, patos)
	assert.Equal(t, MessageType("feedback_received"), msg.Type)
	assert.JSONEq(t, `{"id":"f1"}`, string(msg.Payload))

	select {
	case <-sousa.Send:
		t.Fatal("sousa received a patos message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	conn := &Connection{MunicipalityID: "patos", Send: make(chan []byte, 1)}
	hub.Register(conn)
	hub.Unregister(conn)

	select {
	case _, ok := <-conn.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
	assert.Zero(t, hub.Subscribers("patos"))
}

func TestHubCloseClosesConnections(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := &Connection{MunicipalityID: "patos", Send: make(chan []byte, 1)}
	hub.Register(conn)

	hub.Close()
	_, ok := <-conn.Send
	assert.False(t, ok)

	// calls after Close do not block
	hub.BroadcastToMunicipality("patos", "x", nil)
	hub.Unregister(conn)
	hub.Close()
}
