package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	_ "github.com/jackc/pgx/v5/stdlib"

	"redactify/internal/gateway/config"
	"redactify/internal/gateway/handler"
	"redactify/internal/gateway/server"
	"redactify/internal/llmclient"
	"redactify/internal/redact"
	"redactify/internal/selection"
	"redactify/internal/staging"
)

type App struct {
	server *server.Server
	llm    llmclient.Client
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.Env == "local" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	stores, err := initStores(cfg, log)
	if err != nil {
		return nil, err
	}

	llm, err := newLLMClient(cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("backend", llm.Name()).Str("model", cfg.LLM.Model).Msg("llm client ready")

	selectionSvc := selection.NewService(stores.selections)

	stager, err := staging.NewOrchestrator(stores.selections, llm, staging.Config{
		Model:         cfg.LLM.Model,
		MinConfidence: cfg.Staging.MinConfidence,
		Logger:        log,
	})
	if err != nil {
		return nil, err
	}

	redactor := redact.NewEngine(redact.NewPDFKitOpener(), watermarkFromConfig(cfg.Watermark))

	h := handler.New(handler.Deps{
		Documents:  stores.documents,
		Rules:      stores.rules,
		Artifacts:  stores.artifacts,
		Selections: selectionSvc,
		Stager:     stager,
		Redactor:   redactor,
		LLM:        llm,
		Logger:     log,
	})

	mux := server.NewMux(h, log)
	srv := server.New(cfg.Port, mux, log)

	return &App{server: srv, llm: llm}, nil
}

func newLLMClient(cfg *config.Config) (llmclient.Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLM.Provider)) {
	case "", "ollama":
		return llmclient.NewOllamaClient(cfg.LLM.OllamaBaseURL), nil
	case "gemini":
		return llmclient.NewGeminiClient(context.Background())
	case "fake":
		return llmclient.NewFakeClient(`{"selections":[]}`), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

func watermarkFromConfig(cfg config.WatermarkConfig) redact.Watermark {
	wm := redact.DefaultWatermark()
	switch redact.Anchor(cfg.Anchor) {
	case redact.AnchorTopLeft, redact.AnchorTopRight, redact.AnchorBottomLeft,
		redact.AnchorBottomRight, redact.AnchorCenter:
		wm.Anchor = redact.Anchor(cfg.Anchor)
	}
	if cfg.Padding > 0 {
		wm.Padding = cfg.Padding
	}
	if cfg.FontSize > 0 {
		wm.FontSize = cfg.FontSize
	}
	return wm
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.llm != nil {
		_ = a.llm.Close()
	}
	return a.server.Shutdown(ctx)
}
