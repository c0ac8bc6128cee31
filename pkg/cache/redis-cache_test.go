package cache

import (
	"context"
	"testing"

	"github.com/duccv/go-product-catalog/config"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisClientRejectsUnknownType(t *testing.T) {
	client, err := NewRedisClient(context.Background(), config.RedisConfig{Type: "CLUSTER", Addrs: "localhost:6379"})
	assert.Nil(t, client)
	assert.ErrorContains(t, err, "invalid redis type")
}
