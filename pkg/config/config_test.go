package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a", "b"}, CSV(" a , ,b,"))
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/db")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := Load()

	require.Equal(t, "postgres://u:p@localhost:5432/db", cfg.DatabaseURL)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []byte("s3cret"), cfg.JWTAccessSecret)
	assert.Equal(t, "storefront", cfg.ServiceName)
}
