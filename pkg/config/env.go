package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable, e.g. SAFETABLE_HTTP_PORT.
const EnvPrefix = "SAFETABLE"

// Env holds secrets and deployment settings read from the environment.
type Env struct {
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	ConfigPath string `envconfig:"CONFIG"`

	// HTTP daemon
	HTTPPort int      `envconfig:"HTTP_PORT" default:"8080"`
	APIKeys  []string `envconfig:"API_KEYS"`

	// Collaborators
	FoodSafetyKey string        `envconfig:"FOODSAFETY_KEY"`
	FoodSafetyURL string        `envconfig:"FOODSAFETY_URL" default:"http://openapi.foodsafetykorea.go.kr/api"`
	KakaoKey      string        `envconfig:"KAKAO_REST_KEY"`
	KakaoURL      string        `envconfig:"KAKAO_URL" default:"https://dapi.kakao.com"`
	GoogleKey     string        `envconfig:"GOOGLE_PLACES_KEY"`
	GoogleURL     string        `envconfig:"GOOGLE_PLACES_URL" default:"https://maps.googleapis.com"`
	HTTPTimeout   time.Duration `envconfig:"HTTP_TIMEOUT" default:"5s"`

	// Registry backends
	PostgresDSN string `envconfig:"POSTGRES_DSN"`
	DatasetURI  string `envconfig:"DATASET_URI"` // file path, s3://bucket/key or gs://bucket/key

	// S3-compatible dataset storage
	S3Region    string `envconfig:"S3_REGION"`
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
}

// LoadEnv parses the environment.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	return &env, nil
}

// HTTPAddr returns the HTTP listen address.
func (e *Env) HTTPAddr() string {
	return fmt.Sprintf(":%d", e.HTTPPort)
}
