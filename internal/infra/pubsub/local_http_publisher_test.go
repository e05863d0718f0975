package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafe/internal/domain/service"
)

func TestLocalHTTPPublisher_PublishOrderStatusEvent(t *testing.T) {
	var received PubSubPushMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "req-42", r.Header.Get("X-Request-Id"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.DiscardHandler))

	event := &service.OrderStatusEvent{
		RequestID: "req-42",
		OrderID:   "order-1",
		OwnerID:   "owner-1",
		OldStatus: "pending",
		NewStatus: "ready",
	}
	require.NoError(t, publisher.PublishOrderStatusEvent(context.Background(), event))

	assert.Equal(t, "order-1", received.Message.Attributes["order_id"])
	assert.Equal(t, "ready", received.Message.Attributes["new_status"])
	assert.Equal(t, "req-42", received.Message.Attributes["request_id"])

	payload, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)

	var decoded service.OrderStatusEvent
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, *event, decoded)
}

func TestLocalHTTPPublisher_NonSuccessStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.DiscardHandler))

	err := publisher.PublishOrderStatusEvent(context.Background(), &service.OrderStatusEvent{OrderID: "order-1"})
	assert.Error(t, err)
}
