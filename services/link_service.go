// services/link_service.go
package services

import (
	"errors"
	"log"
	"time"

	"health-to-earn-service/models"
	"health-to-earn-service/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LinkService owns the account-linking flow: status check, OAuth authorize
// redirect, and the token-exchange callback.
type LinkService struct {
	DB       *gorm.DB
	Provider *ProviderClient
}

func NewLinkService(db *gorm.DB, provider *ProviderClient) *LinkService {
	return &LinkService{DB: db, Provider: provider}
}

// Status reports whether the given address is already linked to an athlete.
// Presence only: no record content leaves this endpoint.
func (s *LinkService) Status(c *fiber.Ctx) error {
	address, err := utils.ParseAddress(c.Query("dhealth.address"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing or invalid dhealth.address"})
	}

	var link models.UserLink
	if err := s.DB.Where("address = ?", address).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "unlinked"})
		}
		log.Printf("DB Error checking link status: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	return c.JSON(fiber.Map{"status": "linked"})
}

// Authorize validates the address and redirects the browser to the
// provider's OAuth authorization page, carrying the address as state.
// Never touches the store.
func (s *LinkService) Authorize(c *fiber.Ctx) error {
	address, err := utils.ParseAddress(c.Query("dhealth.address"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing or invalid dhealth.address"})
	}

	return c.Redirect(s.Provider.AuthorizeURL(address), fiber.StatusMovedPermanently)
}

// Link is the OAuth callback. Every failure mode is checked before any
// network or store call: explicit denial, missing callback params, and a
// state value that is not a valid address.
func (s *LinkService) Link(c *fiber.Ctx) error {
	if c.Query("error") == "access_denied" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "authorization denied by user"})
	}

	code := c.Query("code")
	scope := c.Query("scope")
	state := c.Query("state")
	if code == "" || scope == "" || state == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing code, scope or state"})
	}

	address, err := utils.ParseAddress(state)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "state is not a valid dhealth.address"})
	}

	token, err := s.Provider.ExchangeCode(c.Context(), code)
	if err != nil {
		log.Printf("Token exchange failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "code exchange rejected by provider"})
	}

	link := models.UserLink{
		AthleteID:       token.Athlete.ID,
		Address:         address,
		AccessToken:     token.AccessToken,
		RefreshToken:    token.RefreshToken,
		AccessExpiresAt: token.ExpiresAt,
		LinkedAt:        time.Now().UnixMilli(),
	}

	// Re-linking from the same athlete merges into the existing row.
	if err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "athlete_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"address", "access_token", "refresh_token", "access_expires_at", "linked_at", "updated_at",
		}),
	}).Create(&link).Error; err != nil {
		log.Printf("DB Error saving user link for athlete %d: %v", token.Athlete.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save link"})
	}

	log.Printf("✅ Linked athlete %d to address %s", link.AthleteID, link.Address)
	return c.JSON(fiber.Map{"status": "linked", "athlete_id": link.AthleteID})
}

// Unlink will eventually revoke the provider tokens and clear the address
// field (not the whole record).
func (s *LinkService) Unlink(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "not implemented"})
}
