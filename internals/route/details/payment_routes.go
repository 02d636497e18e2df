package details

import (
	"github.com/gofiber/fiber/v2"

	txController "gymku_backend/internals/features/payment/transactions/controller"
	txRoute "gymku_backend/internals/features/payment/transactions/route"
	txService "gymku_backend/internals/features/payment/transactions/service"
)

// PaymentRoutes checkout, riwayat, webhook Midtrans & admin transaksi.
func PaymentRoutes(d Deps) Mount {
	ctl := txController.NewTransactionController(
		txService.NewTransactionService(d.DB, d.Gateway, d.Cache, d.Metrics, d.Loc),
	)
	return Mount{
		Public: func(api fiber.Router) { txRoute.TransactionPublicRoutes(api, ctl) },
		User:   func(user fiber.Router) { txRoute.TransactionUserRoutes(user, ctl) },
		Admin:  func(admin fiber.Router) { txRoute.TransactionAdminRoutes(admin, ctl) },
	}
}
