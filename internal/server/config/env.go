package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration values from environment variables.
// A .env file in the working directory is loaded first if present;
// real environment variables win over .env entries (godotenv does not
// overwrite variables that are already set).
//
// Recognized variables:
//
//	SERVER_ADDR, DATABASE_DSN, SECRET_KEY,
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT,
//	SMTP_ADDR, SMTP_FROM, SMTP_USER, SMTP_PASSWORD, PUBLIC_BASE_URL,
//	LLM_API_KEY, LLM_BASE_URL, LLM_MODEL
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setIfNotEmpty(&config.EndpointAddr, os.Getenv("SERVER_ADDR"))
	setIfNotEmpty(&config.DatabaseDSN, os.Getenv("DATABASE_DSN"))
	setIfNotEmpty(&config.SecretKey, os.Getenv("SECRET_KEY"))
	setIfNotEmpty(&config.S3RootUser, os.Getenv("S3_ROOT_USER"))
	setIfNotEmpty(&config.S3RootPassword, os.Getenv("S3_ROOT_PASSWORD"))
	setIfNotEmpty(&config.S3Bucket, os.Getenv("S3_BUCKET"))
	setIfNotEmpty(&config.S3Region, os.Getenv("S3_REGION"))
	setIfNotEmpty(&config.S3BaseEndpoint, os.Getenv("S3_BASE_ENDPOINT"))
	setIfNotEmpty(&config.SMTPAddr, os.Getenv("SMTP_ADDR"))
	setIfNotEmpty(&config.SMTPFrom, os.Getenv("SMTP_FROM"))
	setIfNotEmpty(&config.SMTPUser, os.Getenv("SMTP_USER"))
	setIfNotEmpty(&config.SMTPPassword, os.Getenv("SMTP_PASSWORD"))
	setIfNotEmpty(&config.PublicBaseURL, os.Getenv("PUBLIC_BASE_URL"))
	setIfNotEmpty(&config.LLMAPIKey, os.Getenv("LLM_API_KEY"))
	setIfNotEmpty(&config.LLMBaseURL, os.Getenv("LLM_BASE_URL"))
	setIfNotEmpty(&config.LLMModel, os.Getenv("LLM_MODEL"))
}
