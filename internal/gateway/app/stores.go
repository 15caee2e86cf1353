package app

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"redactify/internal/gateway/config"
	artifactrepo "redactify/internal/gateway/repository/artifact"
	"redactify/internal/gateway/repository/directiverulerepo"
	"redactify/internal/gateway/repository/documentrepo"
	"redactify/internal/gateway/repository/selectionrepo"
	"redactify/internal/selection"
)

type gatewayStores struct {
	documents  documentrepo.Store
	rules      directiverulerepo.Store
	selections selection.Store
	artifacts  artifactrepo.Store
}

func initStores(cfg *config.Config, log zerolog.Logger) (*gatewayStores, error) {
	var stores *gatewayStores
	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		if err := db.Ping(); err != nil {
			return nil, fmt.Errorf("ping db: %w", err)
		}
		log.Info().Msg("stores: postgres")
		stores = &gatewayStores{
			documents:  documentrepo.NewPostgresStore(db),
			rules:      directiverulerepo.NewPostgresStore(db),
			selections: selectionrepo.NewPostgresStore(db),
		}
	} else {
		log.Info().Msg("stores: in-memory")
		stores = &gatewayStores{
			documents:  documentrepo.NewMemoryStore(),
			rules:      directiverulerepo.NewMemoryStore(),
			selections: selectionrepo.NewMemoryStore(),
		}
	}

	artifacts, err := chooseArtifactStore(cfg, log)
	if err != nil {
		return nil, err
	}
	stores.artifacts = artifacts
	return stores, nil
}

func chooseArtifactStore(cfg *config.Config, log zerolog.Logger) (artifactrepo.Store, error) {
	var origin artifactrepo.Store
	if cfg.Artifact.CanUseS3() {
		s3Store, err := artifactrepo.NewS3Store(artifactrepo.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("init artifact s3 store: %w", err)
		}
		log.Info().
			Str("bucket", cfg.Artifact.Bucket).
			Str("endpoint", cfg.Artifact.Endpoint).
			Msg("artifact store: s3")
		origin = s3Store
	} else {
		if cfg.Artifact.Enabled {
			log.Info().Msg("artifact store: in-memory fallback (s3 config incomplete)")
		}
		origin = artifactrepo.NewMemoryStore()
	}
	return artifactrepo.NewCachedStore(origin, cfg.Artifact.CacheSize)
}
