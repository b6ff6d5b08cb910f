package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string
	LogLevel    string

	ServerPort int

	DatabaseURL string

	JWTAccessSecret []byte

	KafkaBrokers []string

	RedisAddr     string
	RedisPassword string

	ESURL      string
	ESUser     string
	ESPassword string
}

// Load reads .env (when present) and then the process environment.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	v := New()

	return Config{
		ServiceName: v.GetString("SERVICE_NAME"),
		LogLevel:    v.GetString("LOG_LEVEL"),

		ServerPort: v.GetInt("SERVER_PORT"),

		DatabaseURL: v.GetString("DATABASE_URL"),

		JWTAccessSecret: []byte(v.GetString("JWT_SECRET")),

		KafkaBrokers: CSV(v.GetString("KAFKA_BROKERS")),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),

		ESURL:      v.GetString("ES_URL"),
		ESUser:     v.GetString("ES_USER"),
		ESPassword: v.GetString("ES_PASSWORD"),
	}
}

// New returns a viper instance bound to the environment with the shared defaults.
func New() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVICE_NAME", "storefront")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_PORT", 8080)
	return v
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
