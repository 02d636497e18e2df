package route

import (
	"github.com/gofiber/fiber/v2"

	"gymku_backend/internals/features/payment/transactions/controller"
	"gymku_backend/internals/middlewares"
)

// TransactionPublicRoutes: webhook gateway, tanpa JWT.
func TransactionPublicRoutes(api fiber.Router, ctl *controller.TransactionController) {
	api.Post("/payments/notification", ctl.Notification)
}

func TransactionUserRoutes(user fiber.Router, ctl *controller.TransactionController) {
	p := user.Group("/payments")
	p.Post("/checkout", middlewares.CheckoutRateLimiter(), ctl.Checkout)
	p.Get("/", ctl.Mine)
	p.Get("/:code", ctl.GetMine)
	p.Post("/:code/cancel", ctl.Cancel)
}

func TransactionAdminRoutes(admin fiber.Router, ctl *controller.TransactionController) {
	t := admin.Group("/transactions")
	t.Get("/", ctl.AdminList)
	t.Get("/:id", ctl.Get)
	t.Patch("/:id/status", ctl.UpdateStatus)
}
