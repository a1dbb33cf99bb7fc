package middleware

import (
	"errors"
	"log"
	"net"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
	"github.com/aigatehq/aigate/internal/pkg/geoip"
)

// ClientIP resolves the caller's address, preferring the first entry of
// X-Forwarded-For when a proxy sits in front.
func ClientIP(c *fiber.Ctx) string {
	if fwd := c.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	return c.IP()
}

// IPControl guards admin-facing routes. A whitelisted IP passes outright
// and its last-login stamp is refreshed; anything else is judged by the
// country blocklist through the geo lookup. Unresolvable countries pass,
// the blocklist only stops what it can name.
func IPControl() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := ClientIP(c)
		repos := repository.GetGlobalRepositories()

		entry, err := repos.AccessList.GetIP(ip)
		if err == nil && entry != nil {
			if err := repos.AccessList.TouchIPLogin(ip, time.Now()); err != nil {
				log.Printf("[IPControl] failed to stamp %s: %v", ip, err)
			}
			return c.Next()
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Internal("failed to check IP whitelist", err)
		}

		country := geoip.CountryCode(ip)
		if country == "" {
			return c.Next()
		}
		blocked, err := repos.AccessList.ListCountries()
		if err != nil {
			return apperr.Internal("failed to check country blocklist", err)
		}
		for _, b := range blocked {
			if strings.EqualFold(b.CountryCode, country) {
				log.Printf("[IPControl] blocked %s from %s", ip, country)
				return apperr.Forbidden("Access from your region is not allowed")
			}
		}
		return c.Next()
	}
}
