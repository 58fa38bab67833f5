package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigContextRoundTrip(t *testing.T) {
	cfg := &Config{Output: "json"}
	ctx := WithConfig(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
}

func TestFromContextEmpty(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	assert.Nil(t, FromContext(nil)) //nolint:staticcheck // nil ctx is the case under test
}

func TestGetLoggerEmpty(t *testing.T) {
	require.NotNil(t, GetLogger(context.Background()))
	require.NotNil(t, GetLogger(nil)) //nolint:staticcheck // nil ctx is the case under test
}
