package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	body, id, err := encode(RoutingOrderCreated, map[string]string{"orderNumber": "ORD-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	var got struct {
		Pattern string            `json:"pattern"`
		Data    map[string]string `json:"data"`
		ID      string            `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "order.created", got.Pattern)
	assert.Equal(t, "ORD-1", got.Data["orderNumber"])
	assert.Equal(t, id, got.ID)
}

func TestEncode_Unmarshalable(t *testing.T) {
	_, _, err := encode(RoutingOrderUpdated, make(chan int))
	assert.Error(t, err)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), RoutingOrderCreated, nil))
}
