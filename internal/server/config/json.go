package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pawmate/pawmate/internal/flagx"
	"github.com/pawmate/pawmate/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	EmailTokenValidityDuration   timex.Duration `json:"email_token_validity_duration"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	SMTPAddr                     string         `json:"smtp_addr"`
	SMTPFrom                     string         `json:"smtp_from"`
	SMTPUser                     string         `json:"smtp_user"`
	SMTPPassword                 string         `json:"smtp_password"`
	PublicBaseURL                string         `json:"public_base_url"`
	LLMAPIKey                    string         `json:"llm_api_key"`
	LLMBaseURL                   string         `json:"llm_base_url"`
	LLMModel                     string         `json:"llm_model"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path comes from the -c or -config command-line flags.
// If it is not set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
//
// Only non-zero values from the file override the current Config. The caller
// is expected to merge these values with environment variables and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setIfNotEmpty(&config.EndpointAddr, c.EndpointAddr)
	setIfNotEmpty(&config.DatabaseDSN, c.DatabaseDSN)
	setIfNotEmpty(&config.SecretKey, c.SecretKey)
	setIfNotZero(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration.Duration)
	setIfNotZero(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration.Duration)
	setIfNotZero(&config.EmailTokenValidityDuration, c.EmailTokenValidityDuration.Duration)
	setIfNotEmpty(&config.S3RootUser, c.S3RootUser)
	setIfNotEmpty(&config.S3RootPassword, c.S3RootPassword)
	setIfNotEmpty(&config.S3Bucket, c.S3Bucket)
	setIfNotEmpty(&config.S3Region, c.S3Region)
	setIfNotEmpty(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setIfNotEmpty(&config.SMTPAddr, c.SMTPAddr)
	setIfNotEmpty(&config.SMTPFrom, c.SMTPFrom)
	setIfNotEmpty(&config.SMTPUser, c.SMTPUser)
	setIfNotEmpty(&config.SMTPPassword, c.SMTPPassword)
	setIfNotEmpty(&config.PublicBaseURL, c.PublicBaseURL)
	setIfNotEmpty(&config.LLMAPIKey, c.LLMAPIKey)
	setIfNotEmpty(&config.LLMBaseURL, c.LLMBaseURL)
	setIfNotEmpty(&config.LLMModel, c.LLMModel)
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setIfNotZero(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
