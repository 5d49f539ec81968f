package app

import (
	"github.com/talkbase/talkbase-backend/internal/platform/envutil"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

type Config struct {
	ServiceName  string
	Environment  string
	Version      string
	JWTSecretKey string
	Port         string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		ServiceName:  envutil.Get("SERVICE_NAME", "talkbase-backend", log),
		Environment:  envutil.Get("ENVIRONMENT", "development", log),
		Version:      envutil.Get("SERVICE_VERSION", "dev", log),
		JWTSecretKey: envutil.Get("JWT_SECRET_KEY", "defaultsecret", log),
		Port:         envutil.Get("PORT", "8080", log),
	}
}
