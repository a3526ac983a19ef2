// Package cache contiene el cliente Redis y el decorador de lectura del repositorio de categorías.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/carmarket/catalog-api/internal/domain/repository"
	"github.com/carmarket/catalog-api/pkg/config"
)

// Connect crea el cliente Redis y verifica la conexión con un ping.
func Connect(cfg config.RedisConfig, log zerolog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Info().Str("addr", cfg.Addr).Msg("redis conectado")
	return client, nil
}

// Wrap envuelve repo con la caché de listados cuando Redis está configurado y responde.
// En otro caso devuelve repo sin cambios. closeFn libera el cliente si se creó.
// API y seed deben escribir a través de Wrap para que toda escritura invalide los listados.
func Wrap(repo repository.CategoryRepository, cfg config.RedisConfig, log zerolog.Logger) (wrapped repository.CategoryRepository, closeFn func()) {
	if !cfg.Enabled() {
		return repo, func() {}
	}
	client, err := Connect(cfg, log)
	if err != nil {
		// Sin Redis se sirve directo del almacén.
		log.Warn().Err(err).Msg("caché deshabilitada")
		return repo, func() {}
	}
	return NewCategoryRepository(repo, client, cfg.TTL, log), func() { _ = client.Close() }
}
