package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdns/promptdns/internal/dns/config"
)

func testConfig() *config.AppConfig {
	cfg := config.DEFAULT_APP_CONFIG
	cfg.Port = 15353
	cfg.OpenAIAPIKey = "sk-test"
	return &cfg
}

func TestBuildApplication(t *testing.T) {
	app, err := buildApplication(testConfig())
	require.NoError(t, err)

	assert.NotNil(t, app.resolver)
	// UDP and TCP on the same port.
	require.Len(t, app.transports, 2)
}

func TestBuildApplication_MissingProviderCredentialFails(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAIAPIKey = ""

	_, err := buildApplication(cfg)
	assert.ErrorContains(t, err, "failed to build answer provider")
}

func TestBuildApplication_UnknownProviderFails(t *testing.T) {
	cfg := testConfig()
	cfg.Provider = "bedrock"

	_, err := buildApplication(cfg)
	assert.Error(t, err)
}

func TestBuildLimiter_DisabledByDefault(t *testing.T) {
	limiter, err := buildLimiter(testConfig())
	require.NoError(t, err)
	assert.Nil(t, limiter)
}

func TestBuildLimiter_Enabled(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 5
	cfg.RateBurst = 10

	limiter, err := buildLimiter(cfg)
	require.NoError(t, err)
	require.NotNil(t, limiter)

	// Burst of 10 allows ten immediate queries, then denies.
	for i := 0; i < 10; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"), "query %d within burst", i)
	}
	assert.False(t, limiter.Allow("10.0.0.1"))
}
