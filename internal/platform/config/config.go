package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. Empty backend settings keep
// the corresponding in-memory implementation, so the binary runs with no
// external services at all.
type Server struct {
	Addr          string
	JWTSigningKey string
	IdentitySalt  string

	RedisURL    string
	PostgresDSN string

	KafkaBrokers []string
	AuditTopic   string
}

// StageTimeout bounds each authorization engine stage when driven by the
// orchestrator. Expiry surfaces as a retryable timeout, never a state change.
var StageTimeout = 5 * time.Second

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("TRUSTGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; override in any shared environment.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	identitySalt := os.Getenv("IDENTITY_SALT")
	if identitySalt == "" {
		identitySalt = "dev-identity-salt"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}
	auditTopic := os.Getenv("AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "trustgate.audit"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		IdentitySalt:  identitySalt,
		RedisURL:      os.Getenv("REDIS_URL"),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		KafkaBrokers:  brokers,
		AuditTopic:    auditTopic,
	}
}
