package geolite

import (
	"net"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/oschwald/geoip2-golang"

	"sifter/internal/config"
	"sifter/internal/extract"
)

var (
	countryDB *geoip2.Reader
	initOnce  sync.Once

	// lookupFunc is swapped in tests.
	lookupFunc = LookupCountry
)

// Init opens the GeoLite2 country database configured in settings. Enrichment
// stays disabled when no database is configured or the file cannot be opened.
func Init() {
	initOnce.Do(func() {
		path := config.GetConfig().GeoLite.CountryDBPath
		if path == "" {
			return
		}

		db, err := geoip2.Open(path)
		if err != nil {
			log.Warn("GeoLite country database could not be opened, enrichment disabled", "path", path, "error", err)
			return
		}

		countryDB = db
		log.Info("GeoLite country database loaded", "path", path)
	})
}

// Enabled reports whether Unknown-marker enrichment should run.
func Enabled() bool {
	return countryDB != nil && config.GetConfig().GeoLite.EnrichUnknown
}

// LookupCountry resolves an IPv4 address to its ISO country code, or "" when the
// database is unavailable or has no answer.
func LookupCountry(address string) string {
	if countryDB == nil {
		return ""
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return ""
	}

	record, err := countryDB.Country(ip)
	if err != nil {
		return ""
	}

	return record.Country.IsoCode
}

// EnrichUnknown returns a copy of records where Unknown markers are replaced by
// GeoLite lookups when those succeed. Heuristic hits are never overridden. The
// copy is re-sorted through the engine's own comparator so the record set's sort
// contract survives enrichment.
func EnrichUnknown(records extract.RecordSet) extract.RecordSet {
	enriched := make(extract.RecordSet, len(records))
	copy(enriched, records)

	changed := false
	for i := range enriched {
		if enriched[i].Country != extract.UnknownCountry {
			continue
		}
		if code := lookupFunc(enriched[i].Address); code != "" {
			enriched[i].Country = code
			changed = true
		}
	}

	if changed {
		extract.SortByCountry(enriched)
	}

	return enriched
}

// Close releases the database handle on shutdown.
func Close() {
	if countryDB != nil {
		_ = countryDB.Close()
		countryDB = nil
	}
}
