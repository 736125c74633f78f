// services/webhook_service.go
package services

import (
	"errors"
	"log"
	"time"

	"health-to-earn-service/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	eventReceived = "EVENT_RECEIVED"
	eventIgnored  = "EVENT_IGNORED"
)

// WebhookService handles the provider's webhook surface: subscription
// verification (GET), activity event ingestion (POST) and subscription
// management against the provider API.
type WebhookService struct {
	DB          *gorm.DB
	Provider    *ProviderClient
	VerifyToken string
	CallbackURL string
}

func NewWebhookService(db *gorm.DB, provider *ProviderClient, verifyToken, callbackURL string) *WebhookService {
	return &WebhookService{
		DB:          db,
		Provider:    provider,
		VerifyToken: verifyToken,
		CallbackURL: callbackURL,
	}
}

// Handle is the single webhook entry point. The provider verifies the
// subscription with GET and delivers events with POST; anything else is
// refused.
func (s *WebhookService) Handle(c *fiber.Ctx) error {
	switch c.Method() {
	case fiber.MethodGet:
		return s.verifySubscription(c)
	case fiber.MethodPost:
		return s.ingestEvent(c)
	default:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "method not allowed"})
	}
}

// verifySubscription answers the provider's challenge. The challenge value
// is echoed back verbatim; a wrong verify token is treated as a potentially
// malicious probe.
func (s *WebhookService) verifySubscription(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	verifyToken := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "" || verifyToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing hub.mode or hub.verify_token"})
	}

	if mode != "subscribe" || verifyToken != s.VerifyToken {
		log.Printf("🚫 [WEBHOOK] Subscription verification rejected (mode=%q, token mismatch=%v)", mode, verifyToken != s.VerifyToken)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "verification failed"})
	}

	return c.JSON(fiber.Map{"hub.challenge": challenge})
}

// webhookEvent is the provider's event envelope. Numeric fields are
// pointers so a missing field is distinguishable from a zero value.
type webhookEvent struct {
	ObjectType string `json:"object_type"`
	ObjectID   *int64 `json:"object_id"`
	AspectType string `json:"aspect_type"`
	OwnerID    *int64 `json:"owner_id"`
}

// ingestEvent turns a new-activity event into at most one ActivityReward
// per athlete per day.
//
// After the shape check, every failure is answered with 200 EVENT_IGNORED:
// the provider disables subscriptions that keep seeing non-200 responses,
// and losing the subscription costs more than dropping one event. This
// translation is specific to this endpoint.
func (s *WebhookService) ingestEvent(c *fiber.Ctx) error {
	var evt webhookEvent
	if err := c.BodyParser(&evt); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event body"})
	}
	if evt.ObjectType == "" || evt.ObjectID == nil || evt.AspectType == "" || evt.OwnerID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing object_type, object_id, aspect_type or owner_id"})
	}

	// Only freshly created activities are reward-eligible.
	if evt.ObjectType != "activity" || evt.AspectType != "create" {
		return c.SendString(eventIgnored)
	}

	var link models.UserLink
	if err := s.DB.First(&link, "athlete_id = ?", *evt.OwnerID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[WEBHOOK] DB error resolving athlete %d: %v", *evt.OwnerID, err)
		}
		return c.SendString(eventIgnored)
	}

	now := time.Now()
	key := models.RewardKey(models.DayOf(now), link.AthleteID)

	var existing int64
	if err := s.DB.Model(&models.ActivityReward{}).Where("id = ?", key).Count(&existing).Error; err != nil {
		log.Printf("[WEBHOOK] DB error checking reward %s: %v", key, err)
		return c.SendString(eventIgnored)
	}
	if existing > 0 {
		// Already rewarded today.
		return c.SendString(eventIgnored)
	}

	reward := models.ActivityReward{
		ID:         key,
		Address:    link.Address,
		AthleteID:  link.AthleteID,
		ActivityID: *evt.ObjectID,
		RewardDay:  models.DayOf(now),
		ActivityAt: now.Format("2006-01-02 15:04:05"),
	}

	// DoNothing closes the window between the existence check and the
	// insert: concurrent deliveries for the same athlete cannot produce a
	// second row for the day.
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&reward).Error; err != nil {
		log.Printf("[WEBHOOK] DB error creating reward %s: %v", key, err)
		return c.SendString(eventIgnored)
	}

	log.Printf("✅ [WEBHOOK] Reward %s recorded for activity %d", key, reward.ActivityID)
	return c.SendString(eventReceived)
}

// Subscribe registers our callback with the provider and relays its
// subscription payload.
func (s *WebhookService) Subscribe(c *fiber.Ctx) error {
	payload, err := s.Provider.CreateSubscription(c.Context(), s.CallbackURL, s.VerifyToken)
	if err != nil {
		log.Printf("Subscription registration failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "subscription registration failed"})
	}
	return c.JSON(payload)
}

// Unsubscribe is a placeholder until subscription teardown is needed.
func (s *WebhookService) Unsubscribe(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "not implemented"})
}
