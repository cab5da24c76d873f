package app

import (
	"flag"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"sifter/internal/app/bootstrap"
	"sifter/internal/app/server"
	"sifter/internal/config"
	"sifter/internal/geolite"
	"sifter/internal/scraper"
	"sifter/internal/support"
)

const defaultBackendPort = 8082

func Run() error {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found. Falling back to system environment variables.")
	}

	log.SetLevel(log.DebugLevel)

	portFlag := flag.Int("port", defaultBackendPort, "Port for API server")
	serveFEFlag := flag.Bool("serve-frontend", true, "Serve the web bundle on the API port")
	productionFlag := flag.Bool("production", false, "Run in production mode")
	flag.Parse()

	config.SetProductionMode(*productionFlag)
	if config.InProductionMode {
		log.SetLevel(log.InfoLevel)
	}

	port := resolvePort("PORT", "BACKEND_PORT", *portFlag)

	serveFrontend := support.GetEnvBool("SERVE_FRONTEND", *serveFEFlag)

	bootstrap.Setup()

	defer func() {
		scraper.Cleanup()
		geolite.Close()
		if err := support.CloseRedisClient(); err != nil {
			log.Warn("error closing redis client", "error", err)
		}
	}()

	return server.OpenRoutes(port, serveFrontend)
}

func resolvePort(primaryEnv, legacyEnv string, fallback int) int {
	if port := readPort(primaryEnv); port != 0 {
		return port
	}
	if port := readPort(legacyEnv); port != 0 {
		return port
	}
	return fallback
}

func readPort(envKey string) int {
	raw := os.Getenv(envKey)
	if raw == "" {
		return 0
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port == 0 {
		log.Warn("invalid port override", "env", envKey, "value", raw)
		return 0
	}
	return port
}
