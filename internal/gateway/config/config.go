package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string

	LLM       LLMConfig
	Staging   StagingConfig
	Watermark WatermarkConfig
	Artifact  ArtifactConfig
}

type LLMConfig struct {
	// Provider is one of ollama, gemini, fake.
	Provider      string
	Model         string
	OllamaBaseURL string
}

type StagingConfig struct {
	MinConfidence float64
}

type WatermarkConfig struct {
	Anchor   string
	Padding  float64
	FontSize float64
}

type ArtifactConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	CacheSize int
}

func (a ArtifactConfig) CanUseS3() bool {
	return a.Endpoint != "" && a.AccessKey != "" && a.SecretKey != "" && a.Bucket != ""
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	configFile := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	cfg := &Config{
		Port:        *port,
		Env:         env,
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		LLM: LLMConfig{
			Provider:      firstNonEmpty(strings.TrimSpace(os.Getenv("LLM_PROVIDER")), "ollama"),
			Model:         firstNonEmpty(strings.TrimSpace(os.Getenv("LLM_MODEL")), "llama3.1"),
			OllamaBaseURL: strings.TrimSpace(os.Getenv("OLLAMA_BASE_URL")),
		},
		Staging: StagingConfig{
			MinConfidence: envFloat("STAGING_MIN_CONFIDENCE", 0.4),
		},
		Watermark: WatermarkConfig{
			Anchor:   firstNonEmpty(strings.TrimSpace(os.Getenv("WATERMARK_ANCHOR")), "bottom_right"),
			Padding:  envFloat("WATERMARK_PADDING", 12),
			FontSize: envFloat("WATERMARK_FONT_SIZE", 9),
		},
		Artifact: loadArtifactConfig(env),
	}

	if err := applyFile(cfg, strings.TrimSpace(*configFile)); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadArtifactConfig(env string) ArtifactConfig {
	endpoint := resolveArtifactEndpoint(env)
	return ArtifactConfig{
		Enabled:   strings.EqualFold(strings.TrimSpace(env), "local") || endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_BUCKET")), "redactify-documents"),
		UseSSL:    resolveArtifactUseSSL(env),
		CacheSize: int(envFloat("ARTIFACT_CACHE_SIZE", 64)),
	}
}

func resolveArtifactEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_MINIO_ENDPOINT")), "minio:9000")
	}
	return strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT"))
}

func resolveArtifactUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("ARTIFACT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
