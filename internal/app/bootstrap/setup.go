package bootstrap

import (
	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"sifter/internal/cache"
	"sifter/internal/config"
	"sifter/internal/database"
	"sifter/internal/geolite"
	"sifter/internal/support"
)

// Setup wires the optional backing services. Only the settings file is
// mandatory; the extraction pipeline itself has no external dependencies, so a
// missing database, GeoLite database or redis instance degrades the feature it
// backs instead of stopping the process.
func Setup() {
	config.ReadSettings()

	if _, err := database.SetupDB(); err != nil {
		log.Warn("Job store unavailable, extraction history disabled", "error", err)
	}

	geolite.Init()

	var redisClient *redis.Client
	if client, err := support.GetRedisClient(); err != nil {
		log.Warn("Redis unavailable, render cache runs in-memory only", "error", err)
	} else {
		redisClient = client
	}

	cache.PublicMemo = cache.New(config.GetCacheTTL(), redisClient)
}
