package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	txDTO "gymku_backend/internals/features/payment/transactions/dto"
	"gymku_backend/internals/features/payment/transactions/service"
	helper "gymku_backend/internals/helpers"
)

type TransactionController struct {
	Svc *service.TransactionService
	Now func() time.Time
}

func NewTransactionController(svc *service.TransactionService) *TransactionController {
	return &TransactionController{Svc: svc, Now: time.Now}
}

// POST /api/v1/payments/checkout
func (ctl *TransactionController) Checkout(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	var in txDTO.CheckoutRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	out, err := ctl.Svc.Checkout(c.UserContext(), uid, in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Transaksi dibuat, lanjutkan pembayaran", out)
}

// GET /api/v1/payments (riwayat milik sendiri)
func (ctl *TransactionController) Mine(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	pg := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.List(c.UserContext(), txDTO.ListTransactionQuery{
		UserID:          uid,
		PaymentStatus:   c.Query("payment_status"),
		PurchasableType: c.Query("purchasable_type"),
		OrderBy:         helper.ResolveSort(c, service.TransactionSortColumns, "created_at", true),
	}, pg)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Riwayat pembayaran", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(rows)))
}

// GET /api/v1/payments/:code
func (ctl *TransactionController) GetMine(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	t, err := ctl.Svc.GetByCode(c.UserContext(), uid, c.Params("code"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", t)
}

// POST /api/v1/payments/:code/cancel
func (ctl *TransactionController) Cancel(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	t, err := ctl.Svc.Cancel(c.UserContext(), uid, c.Params("code"), ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Transaksi dibatalkan", t)
}

// POST /api/v1/payments/notification (Midtrans, tanpa auth; diverifikasi via signature)
func (ctl *TransactionController) Notification(c *fiber.Ctx) error {
	var n txDTO.MidtransNotification
	if err := c.BodyParser(&n); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload notifikasi tidak valid")
	}
	log.Info().Str("order_id", n.OrderID).Str("transaction_status", n.TransactionStatus).Msg("📩 [PAYMENT] notifikasi masuk")

	t, err := ctl.Svc.HandleNotification(c.UserContext(), n, ctl.Now())
	if err != nil {
		return err
	}
	if t == nil {
		return c.JSON(fiber.Map{"status": "ignored"})
	}
	return c.JSON(fiber.Map{"status": "ok", "code": t.Code, "payment_status": t.PaymentStatus})
}

/* ===== ADMIN ===== */

// GET /api/v1/admin/transactions
func (ctl *TransactionController) AdminList(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.List(c.UserContext(), txDTO.ListTransactionQuery{
		UserID:          uint(c.QueryInt("user_id", 0)),
		PaymentStatus:   c.Query("payment_status"),
		PurchasableType: c.Query("purchasable_type"),
		Q:               c.Query("q"),
		OrderBy:         helper.ResolveSort(c, service.TransactionSortColumns, "created_at", true),
	}, pg)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Transactions fetched", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(rows)))
}

// GET /api/v1/admin/transactions/:id
func (ctl *TransactionController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	t, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", t)
}

// PATCH /api/v1/admin/transactions/:id/status
func (ctl *TransactionController) UpdateStatus(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in txDTO.UpdateStatusRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	t, err := ctl.Svc.UpdateStatus(c.UserContext(), id, in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Status transaksi diperbarui", t)
}
