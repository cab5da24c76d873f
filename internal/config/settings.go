package config

import (
	_ "embed"
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

type Config struct {
	Extractor struct {
		MaxBodyBytes int64 `json:"max_body_bytes"`
		CacheTimer   Timer `json:"cache_timer"`
	} `json:"extractor"`

	Scraper struct {
		PoolSize uint32 `json:"pool_size"`
		Timeout  uint32 `json:"timeout"` // milliseconds
	} `json:"scraper"`

	AI struct {
		Endpoint  string `json:"endpoint"`
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
	} `json:"ai"`

	GeoLite struct {
		CountryDBPath string `json:"country_db_path"`
		EnrichUnknown bool   `json:"enrich_unknown"`
	} `json:"geolite"`

	Jobs struct {
		PageSize int `json:"page_size"`
	} `json:"jobs"`
}

type Timer struct {
	Days    uint32 `json:"days"`
	Hours   uint32 `json:"hours"`
	Minutes uint32 `json:"minutes"`
	Seconds uint32 `json:"seconds"`
}

const settingsFilePath = "data/settings.json"

var (
	//go:embed default_settings.json
	defaultConfig []byte

	configValue atomic.Value
	configMu    sync.Mutex

	InProductionMode bool
)

func init() {
	configValue.Store(Config{})
}

func ReadSettings() {
	data, err := os.ReadFile(settingsFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Settings file not found, creating with default configuration")

			err = os.MkdirAll("data", os.ModePerm)
			if err != nil {
				log.Error("Error creating directory for settings file:", err)
				return
			}

			err = os.WriteFile(settingsFilePath, defaultConfig, os.ModePerm)
			if err != nil {
				log.Error("Error writing default settings file:", err)
				return
			}

			data = defaultConfig
		} else {
			log.Error("Error reading settings file:", err)
			return
		}
	}

	var newConfig Config
	err = json.Unmarshal(data, &newConfig)
	if err != nil {
		log.Error("Error unmarshalling settings file:", err)
		return
	}

	applyConfigUpdate(newConfig, false)
	log.Debug("Settings file loaded successfully")
}

func SetConfig(newConfig Config) {
	applyConfigUpdate(newConfig, true)
	log.Debug("Configuration updated and written to file successfully")
}

func applyConfigUpdate(newConfig Config, persistToFile bool) {
	configMu.Lock()
	defer configMu.Unlock()

	configValue.Store(newConfig)

	if persistToFile {
		data, err := json.MarshalIndent(newConfig, "", "  ")
		if err != nil {
			log.Error("Error marshalling new configuration:", err)
			return
		}
		if err := os.WriteFile(settingsFilePath, data, os.ModePerm); err != nil {
			log.Error("Error writing new configuration to file:", err)
		}
	}
}

func GetConfig() Config {
	return configValue.Load().(Config)
}

func SetProductionMode(productionMode bool) {
	InProductionMode = productionMode
}
