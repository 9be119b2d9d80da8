package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// envFile is loaded if present; real environment variables win over it.
var envFile = ".env"

// parseEnv overlays Config with GASTRO_* environment variables.
//
//	GASTRO_HTTP_ADDR        GASTRO_S3_ACCESS_KEY
//	GASTRO_DATABASE_DSN     GASTRO_S3_SECRET_KEY
//	GASTRO_SECRET_KEY       GASTRO_S3_BUCKET
//	GASTRO_TOKEN_VALIDITY   GASTRO_S3_REGION
//	GASTRO_AI_MODEL         GASTRO_S3_ENDPOINT
//	GASTRO_AI_BASE_URL      GASTRO_LOG_LEVEL
//	GASTRO_AI_REGION
//
// GASTRO_TOKEN_VALIDITY uses time.ParseDuration syntax. It panics on a
// malformed duration, like the other loaders do on bad input.
func parseEnv(cfg *Config) {
	_ = godotenv.Load(envFile)

	strVars := map[string]*string{
		"GASTRO_HTTP_ADDR":     &cfg.EndpointAddrHTTP,
		"GASTRO_DATABASE_DSN":  &cfg.DatabaseDSN,
		"GASTRO_SECRET_KEY":    &cfg.SecretKey,
		"GASTRO_S3_ACCESS_KEY": &cfg.S3RootUser,
		"GASTRO_S3_SECRET_KEY": &cfg.S3RootPassword,
		"GASTRO_S3_BUCKET":     &cfg.S3Bucket,
		"GASTRO_S3_REGION":     &cfg.S3Region,
		"GASTRO_S3_ENDPOINT":   &cfg.S3BaseEndpoint,
		"GASTRO_AI_MODEL":      &cfg.AIModel,
		"GASTRO_AI_BASE_URL":   &cfg.AIBaseURL,
		"GASTRO_AI_REGION":     &cfg.AIRegion,
		"GASTRO_LOG_LEVEL":     &cfg.LogLevel,
	}
	for name, dst := range strVars {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv("GASTRO_TOKEN_VALIDITY"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.TokenValidityDuration = d
	}
}
