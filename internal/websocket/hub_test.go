package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reversa-be/pkg/reconcile"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func newTestHub() *Hub {
	h := NewHub(nil, nopLogger{})
	go h.Run()
	return h
}

func attach(t *testing.T, h *Hub, storeID uuid.UUID) *Client {
	t.Helper()
	client := &Client{Hub: h, StoreID: storeID, Send: make(chan []byte, 8)}
	h.register <- client

	deadline := time.Now().Add(time.Second)
	for {
		h.mu.RLock()
		registered := len(h.clients[storeID]) > 0
		h.mu.RUnlock()
		if registered {
			return client
		}
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(time.Millisecond)
	}
}

func recvFrame(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data := <-c.Send:
		return data
	case <-time.After(time.Second):
		t.Fatal("no frame delivered")
		return nil
	}
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("unexpected frame delivered: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

// The cluster frame must embed the envelope as raw JSON so the relaying
// instance hands the browser the exact bytes the publisher marshalled.
func TestClusterFrameRoundTrip(t *testing.T) {
	storeID := uuid.New()
	envelope, err := json.Marshal(Envelope{Kind: "dashboard", Data: reconcile.Snapshot{Syncing: true}})
	require.NoError(t, err)

	wire, err := json.Marshal(clusterFrame{
		Origin:        "instance-a",
		TargetStoreID: storeID.String(),
		Message:       json.RawMessage(envelope),
	})
	require.NoError(t, err)

	var decoded clusterFrame
	require.NoError(t, json.Unmarshal(wire, &decoded))
	assert.Equal(t, string(envelope), string(decoded.Message))

	var relayed Envelope
	require.NoError(t, json.Unmarshal(decoded.Message, &relayed))
	assert.Equal(t, "dashboard", relayed.Kind)
}

func TestHandleClusterFrameRelaysToLocalClients(t *testing.T) {
	h := newTestHub()
	storeID := uuid.New()
	client := attach(t, h, storeID)

	envelope, _ := json.Marshal(Envelope{Kind: "notification", Data: map[string]string{"title": "Nova solicitação"}})
	wire, _ := json.Marshal(clusterFrame{
		Origin:        "another-instance",
		TargetStoreID: storeID.String(),
		Message:       json.RawMessage(envelope),
	})

	h.handleClusterFrame(wire)

	got := recvFrame(t, client)
	assert.JSONEq(t, string(envelope), string(got))
}

// A frame published by this instance already reached its local clients
// through deliver; the Redis echo must not produce a duplicate.
func TestHandleClusterFrameDropsOwnEcho(t *testing.T) {
	h := newTestHub()
	storeID := uuid.New()
	client := attach(t, h, storeID)

	envelope, _ := json.Marshal(Envelope{Kind: "notification", Data: "x"})
	wire, _ := json.Marshal(clusterFrame{
		Origin:        h.instanceID,
		TargetStoreID: storeID.String(),
		Message:       json.RawMessage(envelope),
	})

	h.handleClusterFrame(wire)
	assertNoFrame(t, client)
}

func TestHandleClusterFrameIgnoresGarbage(t *testing.T) {
	h := newTestHub()
	client := attach(t, h, uuid.New())

	h.handleClusterFrame([]byte("not json"))
	h.handleClusterFrame([]byte(`{"origin":"o","target_store_id":"not-a-uuid","message":{}}`))
	assertNoFrame(t, client)
}

func TestSendDeliversEnvelopeToStoreClients(t *testing.T) {
	h := newTestHub()
	storeID := uuid.New()
	client := attach(t, h, storeID)
	other := attach(t, h, uuid.New())

	h.Send(storeID, map[string]string{"message": "Protocolo RET-AAAA1111 mudou para Aprovado."})

	var envelope Envelope
	require.NoError(t, json.Unmarshal(recvFrame(t, client), &envelope))
	assert.Equal(t, "notification", envelope.Kind)
	assertNoFrame(t, other)
}
