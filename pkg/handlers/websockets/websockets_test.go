package websockets_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/allowance-ledger/pkg/handlers/websockets"
	"github.com/chris/allowance-ledger/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func request(routeKey, connectionID string) events.APIGatewayWebsocketProxyRequest {
	return events.APIGatewayWebsocketProxyRequest{
		RequestContext: events.APIGatewayWebsocketProxyRequestContext{RouteKey: routeKey, ConnectionID: connectionID},
	}
}

func TestHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("Connect", func(t *testing.T) {
		store := mocks.NewConnectionStore(t)
		store.On("AddConnection", mock.Anything, "conn-1", "kid-1").Return(nil).Once()

		req := request("$connect", "conn-1")
		req.QueryStringParameters = map[string]string{"userId": "kid-1"}
		resp, err := websockets.NewHandler(store, nil).Handle(ctx, req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Connect User From Header", func(t *testing.T) {
		store := mocks.NewConnectionStore(t)
		store.On("AddConnection", mock.Anything, "conn-1", "kid-2").Return(nil).Once()

		req := request("$connect", "conn-1")
		req.Headers = map[string]string{"x-user-id": "kid-2"}
		resp, err := websockets.NewHandler(store, nil).Handle(ctx, req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Connect Without User", func(t *testing.T) {
		store := mocks.NewConnectionStore(t)

		resp, err := websockets.NewHandler(store, nil).Handle(ctx, request("$connect", "conn-1"))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Connect Storage Error", func(t *testing.T) {
		store := mocks.NewConnectionStore(t)
		store.On("AddConnection", mock.Anything, "conn-1", "kid-1").Return(errors.New("boom")).Once()

		req := request("$connect", "conn-1")
		req.QueryStringParameters = map[string]string{"userId": "kid-1"}
		resp, err := websockets.NewHandler(store, nil).Handle(ctx, req)
		assert.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("Disconnect", func(t *testing.T) {
		store := mocks.NewConnectionStore(t)
		store.On("RemoveConnection", mock.Anything, "conn-1").Return(nil).Once()

		resp, err := websockets.NewHandler(store, nil).Handle(ctx, request("$disconnect", "conn-1"))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Default", func(t *testing.T) {
		store := mocks.NewConnectionStore(t)

		resp, err := websockets.NewHandler(store, nil).Handle(ctx, request("$default", "conn-1"))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
