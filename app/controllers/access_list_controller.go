package controllers

import (
	"net"

	"github.com/gofiber/fiber/v2"

	"github.com/aigatehq/aigate/app/models"
	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/activitylog"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
	"github.com/aigatehq/aigate/internal/pkg/middleware"
)

type whitelistRequest struct {
	IPAddress   string `json:"ip_address"`
	Description string `json:"description"`
}

type countryRequest struct {
	CountryName string `json:"country_name"`
	CountryCode string `json:"country_code"`
}

// HandleListWhitelistIPs returns the IP whitelist
func HandleListWhitelistIPs(c *fiber.Ctx) error {
	entries, err := repository.GetGlobalRepositories().AccessList.ListIPs()
	if err != nil {
		return apperr.Internal("failed to list whitelist", err)
	}
	return success(c, entries)
}

// HandleCreateWhitelistIP adds an IP to the whitelist
func HandleCreateWhitelistIP(c *fiber.Ctx) error {
	var req whitelistRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if net.ParseIP(req.IPAddress) == nil {
		return apperr.Validation("invalid IP address")
	}

	entry := &models.WhitelistIP{
		IPAddress:   req.IPAddress,
		Description: req.Description,
		AddedBy:     middleware.UserIDFromCtx(c),
	}
	if err := repository.GetGlobalRepositories().AccessList.CreateIP(entry); err != nil {
		return apperr.Conflict("This IP is already whitelisted")
	}
	activitylog.Warn(actorEmail(c), "whitelist-add", "whitelisted "+entry.IPAddress, "whitelist-ip")
	return created(c, entry)
}

// HandleUpdateWhitelistIP edits a whitelist entry's description
func HandleUpdateWhitelistIP(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req whitelistRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repos := repository.GetGlobalRepositories()
	entries, err := repos.AccessList.ListIPs()
	if err != nil {
		return apperr.Internal("failed to load whitelist", err)
	}
	for i := range entries {
		if entries[i].ID == id {
			if req.Description != "" {
				entries[i].Description = req.Description
			}
			if err := repos.AccessList.UpdateIP(&entries[i]); err != nil {
				return apperr.Internal("failed to update entry", err)
			}
			activitylog.Info(actorEmail(c), "whitelist-update", "edited "+entries[i].IPAddress, "whitelist-ip")
			return success(c, entries[i])
		}
	}
	return apperr.NotFound("Whitelist entry not found")
}

// HandleDeleteWhitelistIP removes a whitelist entry
func HandleDeleteWhitelistIP(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := repository.GetGlobalRepositories().AccessList.DeleteIP(id); err != nil {
		return apperr.Internal("failed to delete entry", err)
	}
	activitylog.Warn(actorEmail(c), "whitelist-delete", "removed whitelist entry", "whitelist-ip")
	return success(c, fiber.Map{"deleted": true})
}

// HandleListBlockedCountries returns the country blocklist
func HandleListBlockedCountries(c *fiber.Ctx) error {
	entries, err := repository.GetGlobalRepositories().AccessList.ListCountries()
	if err != nil {
		return apperr.Internal("failed to list blocklist", err)
	}
	return success(c, entries)
}

// HandleCreateBlockedCountry adds a country to the blocklist
func HandleCreateBlockedCountry(c *fiber.Ctx) error {
	var req countryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.CountryName == "" || len(req.CountryCode) != 2 {
		return apperr.Validation("country_name and a 2-letter country_code are required")
	}

	entry := &models.BlacklistCountry{
		CountryName: req.CountryName,
		CountryCode: req.CountryCode,
		AddedBy:     middleware.UserIDFromCtx(c),
	}
	if err := repository.GetGlobalRepositories().AccessList.CreateCountry(entry); err != nil {
		return apperr.Conflict("This country is already blocked")
	}
	activitylog.Warn(actorEmail(c), "country-block", "blocked "+entry.CountryName, "country-list")
	return created(c, entry)
}

// HandleUpdateBlockedCountry edits a blocklist entry
func HandleUpdateBlockedCountry(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req countryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repos := repository.GetGlobalRepositories()
	entries, err := repos.AccessList.ListCountries()
	if err != nil {
		return apperr.Internal("failed to load blocklist", err)
	}
	for i := range entries {
		if entries[i].ID == id {
			if req.CountryName != "" {
				entries[i].CountryName = req.CountryName
			}
			if len(req.CountryCode) == 2 {
				entries[i].CountryCode = req.CountryCode
			}
			if err := repos.AccessList.UpdateCountry(&entries[i]); err != nil {
				return apperr.Internal("failed to update entry", err)
			}
			activitylog.Info(actorEmail(c), "country-update", "edited "+entries[i].CountryName, "country-list")
			return success(c, entries[i])
		}
	}
	return apperr.NotFound("Blocklist entry not found")
}

// HandleDeleteBlockedCountry removes a blocklist entry
func HandleDeleteBlockedCountry(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := repository.GetGlobalRepositories().AccessList.DeleteCountry(id); err != nil {
		return apperr.Internal("failed to delete entry", err)
	}
	activitylog.Warn(actorEmail(c), "country-unblock", "removed blocklist entry", "country-list")
	return success(c, fiber.Map{"deleted": true})
}
