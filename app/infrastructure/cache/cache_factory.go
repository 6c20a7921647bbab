package cache

import (
	"strings"

	"github.com/devportal-io/portal-api/config/environment_variables"
)

// NewCacheService creates a cache service based on configuration
func NewCacheService() CacheService {
	cacheType := strings.ToLower(environment_variables.EnvironmentVariables.CACHE_TYPE)

	// Default to Redis if no cache type is specified
	if cacheType == "" {
		cacheType = "redis"
	}

	switch cacheType {
	case "memory":
		return NewMemoryCacheService()
	case "redis":
		return NewRedisCacheService()
	default:
		return NewRedisCacheService()
	}
}
