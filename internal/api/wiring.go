package api

import (
	"context"
	"fmt"
	"time"

	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/auth"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/config"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/finance"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/storage"
	"go.uber.org/zap"
)

// tokenCacheCleanupInterval is how often the in-memory Keycloak token cache
// drops expired entries.
const tokenCacheCleanupInterval = 5 * time.Minute

// BuildDependencies creates the calculator, identity clients and storage
// client described by settings. The returned close function releases the
// token cache.
func BuildDependencies(ctx context.Context, settings *config.Settings, logger *zap.Logger) (Dependencies, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	policy, err := settings.MaintenancePolicy()
	if err != nil {
		return Dependencies{}, nil, err
	}

	var (
		cache     auth.TokenCache
		closeFunc func()
	)
	if settings.Redis.Addr != "" {
		redisCache := auth.NewRedisTokenCache(settings.Redis.Addr, settings.Redis.Password, settings.Redis.DB)
		if err := redisCache.Ping(ctx); err != nil {
			_ = redisCache.Close()
			return Dependencies{}, nil, fmt.Errorf("redis token cache at %s: %w", settings.Redis.Addr, err)
		}
		logger.Info("using redis token cache", zap.String("op", "api.BuildDependencies"), zap.String("addr", settings.Redis.Addr))
		cache = redisCache
		closeFunc = func() { _ = redisCache.Close() }
	} else {
		memoryCache := auth.NewMemoryTokenCache(tokenCacheCleanupInterval)
		cache = memoryCache
		closeFunc = memoryCache.Close
	}

	gotrue := auth.NewGoTrueClient(settings.Supabase.URL, settings.Supabase.Key, settings.Supabase.Timeout, logger)
	keycloak := auth.NewKeycloakClient(settings.Keycloak.ClientID, settings.Keycloak.ClientSecret, settings.Keycloak.Timeout, cache, logger)

	return Dependencies{
		Calculator:    finance.Calculator{Maintenance: policy},
		Authenticator: auth.NewAuthenticator(gotrue, keycloak, logger),
		Store:         storage.NewClient(settings.Supabase.URL, settings.Supabase.Key, settings.Storage.BucketName, settings.Supabase.Timeout, logger),
		Logger:        logger,
	}, closeFunc, nil
}
