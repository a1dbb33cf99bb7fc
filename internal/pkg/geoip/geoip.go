// Package geoip resolves client IPs to ISO country codes with a local
// MaxMind database. Lookups fail open: when no database is configured or
// an address cannot be resolved, the country comes back empty and the
// caller decides what that means.
package geoip

import (
	"log"
	"net"
	"sync"

	"github.com/oschwald/geoip2-golang"

	"github.com/aigatehq/aigate/internal/pkg/env"
)

var (
	reader *geoip2.Reader
	once   sync.Once
)

// Setup opens the MaxMind database named by GEOIP_DB_PATH. Missing or
// unreadable databases are tolerated; country lookups then return empty.
func Setup() {
	once.Do(func() {
		path := env.GetEnv("GEOIP_DB_PATH", "")
		if path == "" {
			log.Println("[GeoIP] no database configured, country lookups disabled")
			return
		}
		r, err := geoip2.Open(path)
		if err != nil {
			log.Printf("[GeoIP] cannot open %s: %v", path, err)
			return
		}
		reader = r
		log.Printf("[GeoIP] database loaded from %s", path)
	})
}

// Close releases the database handle
func Close() {
	if reader != nil {
		reader.Close()
		reader = nil
	}
}

// CountryCode resolves an IP address to its ISO 3166-1 alpha-2 code.
// Returns "" when the database is unavailable or the address is unknown.
func CountryCode(ipStr string) string {
	if reader == nil {
		return ""
	}
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ""
	}
	record, err := reader.Country(ip)
	if err != nil {
		return ""
	}
	return record.Country.IsoCode
}
