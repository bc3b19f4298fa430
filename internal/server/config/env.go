package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is loaded first if present; real environment
// variables win over .env entries (godotenv does not override them).
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setIfPresent := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setIfPresent(&config.EndpointAddr, "ENDPOINT_ADDR")
	setIfPresent(&config.DatabaseDSN, "DATABASE_DSN")
	setIfPresent(&config.JWTSecret, "JWT_SECRET")
	setIfPresent(&config.EncryptionKey, "ENCRYPTION_KEY")
	setIfPresent(&config.EncryptionSalt, "ENCRYPTION_SALT")
	setIfPresent(&config.S3AccessKey, "AWS_ACCESS_KEY_ID")
	setIfPresent(&config.S3SecretKey, "AWS_SECRET_ACCESS_KEY")
	setIfPresent(&config.S3Bucket, "AWS_BUCKET_NAME")
	setIfPresent(&config.S3Region, "AWS_REGION")
	setIfPresent(&config.S3BaseEndpoint, "AWS_S3_ENDPOINT")
}
