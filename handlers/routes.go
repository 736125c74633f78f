// handlers/routes.go
package handlers

import (
	"health-to-earn-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLinkRoutes(app *fiber.App, linkService *services.LinkService) {
	app.Get("/status", linkService.Status)
	app.Get("/authorize", linkService.Authorize)
	app.Get("/link", linkService.Link)
	app.Get("/unlink", linkService.Unlink)
}

func SetupWebhookRoutes(app *fiber.App, webhookService *services.WebhookService) {
	// Single entry: the handler itself dispatches on method (GET verify,
	// POST ingest, everything else 403).
	app.All("/webhook", webhookService.Handle)

	app.Post("/subscribe", webhookService.Subscribe)
	app.All("/unsubscribe", webhookService.Unsubscribe)
}
