package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	gymClassModel "gymku_backend/internals/features/gym_classes/model"
	gymClassService "gymku_backend/internals/features/gym_classes/service"
	txDTO "gymku_backend/internals/features/payment/transactions/dto"
	"gymku_backend/internals/features/payment/transactions/model"
	userModel "gymku_backend/internals/features/users/users/model"
	helper "gymku_backend/internals/helpers"
	"gymku_backend/internals/helpers/cache"
	"gymku_backend/internals/helpers/metrics"
)

const gatewayTimeout = 5 * time.Second

var (
	ErrInvalidSignature = fiber.NewError(fiber.StatusUnauthorized, "Signature notifikasi tidak valid")
	ErrGateway          = fiber.NewError(fiber.StatusBadGateway, "Payment gateway sedang bermasalah, coba lagi nanti")
)

// allowedTransitions: selain yang terdaftar dianggap terminal.
var allowedTransitions = map[model.PaymentStatus][]model.PaymentStatus{
	model.PaymentPending: {model.PaymentPaid, model.PaymentFailed, model.PaymentExpired, model.PaymentCancelled},
	model.PaymentUnpaid:  {model.PaymentPaid, model.PaymentFailed, model.PaymentExpired, model.PaymentCancelled},
	model.PaymentPaid:    {model.PaymentRefunded},
}

func CanTransition(from, to model.PaymentStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func releasesSlot(s model.PaymentStatus) bool {
	return s == model.PaymentFailed || s == model.PaymentExpired || s == model.PaymentCancelled
}

type TransactionService struct {
	DB      *gorm.DB
	Gateway Gateway
	Cache   cache.Cache
	Metrics *metrics.Metrics
	Loc     *time.Location
}

func NewTransactionService(db *gorm.DB, gw Gateway, c cache.Cache, m *metrics.Metrics, loc *time.Location) *TransactionService {
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionService{DB: db, Gateway: gw, Cache: c, Metrics: m, Loc: loc}
}

var TransactionSortColumns = map[string]string{
	"created_at":   "created_at",
	"amount":       "amount",
	"payment_date": "payment_date",
}

func txNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Transaksi tidak ditemukan")
	}
	return err
}

/* ==========================
   CHECKOUT
========================== */

// Checkout: validasi -> reserve slot (kelas) -> insert pending -> minta token ke gateway.
// Gateway dipanggil di luar transaksi DB; kalau gagal transaksi ditandai failed dan slot dilepas.
func (s *TransactionService) Checkout(ctx context.Context, userID uint, in txDTO.CheckoutRequest, now time.Time) (*txDTO.CheckoutResponse, error) {
	in.Normalize()
	if err := helper.ValidateStruct(in); err != nil {
		s.Metrics.IncCheckout(in.PurchasableType, "invalid")
		return nil, err
	}
	if err := in.CrossCheck(); err != nil {
		s.Metrics.IncCheckout(in.PurchasableType, "invalid")
		return nil, err
	}
	now = now.UTC()
	ptype := model.PurchasableType(in.PurchasableType)
	res := resolvers[ptype]

	var (
		t    model.TransactionModel
		item *Purchasable
		user userModel.UserModel
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "User tidak ditemukan")
			}
			return err
		}

		var err error
		if item, err = res.load(tx, in.PurchasableID); err != nil {
			return err
		}
		if item == nil {
			return helper.NewFieldError("purchasable_id", "Item tidak ditemukan atau tidak aktif.")
		}

		if ptype == model.PurchasableGymClass {
			var n int64
			if err := tx.Model(&gymClassModel.GymClassScheduleModel{}).
				Where("id = ? AND gym_class_id = ?", *in.GymClassScheduleID, item.ID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return helper.NewFieldError("gym_class_schedule_id", "Jadwal tidak ditemukan untuk kelas ini.")
			}
			if err := gymClassService.ReserveSlot(tx, *in.GymClassScheduleID); err != nil {
				return err
			}
		}

		t = model.TransactionModel{
			UserID:             userID,
			Amount:             item.Price,
			PaymentStatus:      model.PaymentPending,
			PurchasableType:    ptype,
			PurchasableID:      item.ID,
			GymClassScheduleID: in.GymClassScheduleID,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		return s.insertWithCode(tx, &t, now)
	})
	if err != nil {
		result := "error"
		var fe helper.FieldErrors
		switch {
		case errors.As(err, &fe):
			result = "invalid"
		case errors.Is(err, gymClassService.ErrSlotFull):
			result = "slot_full"
		}
		s.Metrics.IncCheckout(in.PurchasableType, result)
		return nil, helper.Wrap("checkout", err)
	}

	phone := ""
	if user.Phone != nil {
		phone = *user.Phone
	}
	gctx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()
	charge, gerr := s.Gateway.CreateCharge(gctx, ChargeRequest{
		OrderID:  t.Code,
		Amount:   t.Amount,
		ItemName: item.Name,
		Category: item.Category,
		Customer: Customer{Name: user.Name, Email: user.Email, Phone: phone},
	})
	if gerr != nil {
		log.Error().Err(gerr).Str("code", t.Code).Msg("[PAYMENT] gateway gagal, transaksi ditandai failed")
		if err := s.failAfterGateway(ctx, t.ID, now); err != nil {
			log.Error().Err(err).Str("code", t.Code).Msg("[PAYMENT] gagal rollback transaksi")
		}
		s.Metrics.IncCheckout(in.PurchasableType, "gateway_error")
		return nil, ErrGateway
	}

	if err := s.DB.WithContext(ctx).Model(&t).Updates(map[string]any{
		"snap_token":   charge.Token,
		"redirect_url": charge.RedirectURL,
		"updated_at":   now,
	}).Error; err != nil {
		return nil, fmt.Errorf("simpan snap token: %w", err)
	}
	s.Metrics.IncCheckout(in.PurchasableType, "ok")
	cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
	log.Info().Str("code", t.Code).Uint("user_id", userID).Int64("amount", t.Amount).Msg("[PAYMENT] checkout dibuat")

	return &txDTO.CheckoutResponse{
		ID:            t.ID,
		Code:          t.Code,
		Amount:        t.Amount,
		PaymentStatus: string(t.PaymentStatus),
		SnapToken:     charge.Token,
		RedirectURL:   charge.RedirectURL,
	}, nil
}

// insertWithCode: kode bentrok (unique) diulang maksimal maxCodeAttempts kali.
// Savepoint dipakai supaya insert gagal tidak membatalkan seluruh tx (postgres).
func (s *TransactionService) insertWithCode(tx *gorm.DB, t *model.TransactionModel, now time.Time) error {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := NewTransactionCode(t.PurchasableType, t.UserID, now, s.Loc)
		if err != nil {
			return err
		}
		t.Code = code
		if err := tx.SavePoint("tx_code").Error; err != nil {
			return err
		}
		err = tx.Create(t).Error
		if err == nil {
			return nil
		}
		if !helper.IsUniqueViolation(err) {
			return err
		}
		log.Warn().Str("code", code).Int("attempt", i+1).Msg("[PAYMENT] kode transaksi bentrok, ulangi")
		if err := tx.RollbackTo("tx_code").Error; err != nil {
			return err
		}
		t.ID = 0
	}
	return fiber.NewError(fiber.StatusConflict, "Gagal membuat kode transaksi unik, coba lagi")
}

func (s *TransactionService) failAfterGateway(ctx context.Context, id uint, now time.Time) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t model.TransactionModel
		if err := forUpdate(tx).First(&t, id).Error; err != nil {
			return err
		}
		_, err := s.applyStatus(tx, &t, model.PaymentFailed, now)
		return err
	})
}

/* ==========================
   STATUS MACHINE
========================== */

// applyStatus menerapkan transisi + efek sampingnya di dalam tx.
// changed=false kalau status sudah sama (notifikasi berulang).
func (s *TransactionService) applyStatus(tx *gorm.DB, t *model.TransactionModel, to model.PaymentStatus, now time.Time) (changed bool, err error) {
	if t.PaymentStatus == to {
		return false, nil
	}
	if !CanTransition(t.PaymentStatus, to) {
		return false, fiber.NewError(fiber.StatusConflict,
			fmt.Sprintf("Status %s tidak bisa diubah ke %s", t.PaymentStatus, to))
	}

	patch := map[string]any{"payment_status": to, "updated_at": now}
	if to == model.PaymentPaid {
		patch["payment_date"] = now
		t.PaymentDate = &now
	}
	if err := tx.Model(t).Updates(patch).Error; err != nil {
		return false, err
	}
	t.PaymentStatus = to

	switch {
	case to == model.PaymentPaid:
		res, ok := resolvers[t.PurchasableType]
		if !ok {
			return false, fmt.Errorf("purchasable type tidak dikenal: %s", t.PurchasableType)
		}
		if err := res.fulfill(tx, t, now, s.Loc); err != nil {
			return false, fmt.Errorf("fulfil %s: %w", t.PurchasableType, err)
		}
	case releasesSlot(to) && t.PurchasableType == model.PurchasableGymClass && t.GymClassScheduleID != nil:
		if err := gymClassService.ReleaseSlot(tx, *t.GymClassScheduleID); err != nil {
			return false, err
		}
	}
	return true, nil
}

func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// transition: find mengunci & memuat baris (boleh menolak dengan error sendiri).
func (s *TransactionService) transition(ctx context.Context, find func(tx *gorm.DB, t *model.TransactionModel) error, to model.PaymentStatus, now time.Time) (*model.TransactionModel, bool, error) {
	now = now.UTC()
	var (
		t       model.TransactionModel
		changed bool
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := find(tx, &t); err != nil {
			return txNotFound(err)
		}
		var err error
		changed, err = s.applyStatus(tx, &t, to, now)
		return err
	})
	if err != nil {
		return nil, false, helper.Wrap("update transaction status", err)
	}
	if changed {
		s.Metrics.IncPaymentStatus(string(to))
		cache.Invalidate(ctx, s.Cache, cache.DashboardPrefix)
		log.Info().Str("code", t.Code).Str("status", string(to)).Msg("[PAYMENT] status berubah")
	}
	return &t, changed, nil
}

// UpdateStatus admin: PATCH /admin/transactions/:id/status
func (s *TransactionService) UpdateStatus(ctx context.Context, id uint, in txDTO.UpdateStatusRequest, now time.Time) (*model.TransactionModel, error) {
	in.Normalize()
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	t, _, err := s.transition(ctx, func(tx *gorm.DB, t *model.TransactionModel) error {
		return forUpdate(tx).First(t, id).Error
	}, model.PaymentStatus(in.PaymentStatus), now)
	return t, err
}

// Cancel oleh member pemilik; hanya pending/unpaid.
func (s *TransactionService) Cancel(ctx context.Context, userID uint, code string, now time.Time) (*model.TransactionModel, error) {
	t, _, err := s.transition(ctx, func(tx *gorm.DB, t *model.TransactionModel) error {
		if err := forUpdate(tx).Where("code = ? AND user_id = ?", strings.TrimSpace(code), userID).First(t).Error; err != nil {
			return err
		}
		if t.PaymentStatus != model.PaymentPending && t.PaymentStatus != model.PaymentUnpaid {
			return fiber.NewError(fiber.StatusConflict, "Hanya transaksi pending yang bisa dibatalkan")
		}
		return nil
	}, model.PaymentCancelled, now)
	return t, err
}

// MapMidtransStatus status Midtrans -> status internal; ok=false kalau tidak perlu diproses.
func MapMidtransStatus(transactionStatus, fraudStatus string) (model.PaymentStatus, bool) {
	switch strings.ToLower(transactionStatus) {
	case "capture":
		switch strings.ToLower(fraudStatus) {
		case "", "accept":
			return model.PaymentPaid, true
		case "challenge":
			return "", false
		}
		return model.PaymentFailed, true
	case "settlement":
		return model.PaymentPaid, true
	case "pending":
		return model.PaymentPending, true
	case "deny", "failure":
		return model.PaymentFailed, true
	case "cancel":
		return model.PaymentCancelled, true
	case "expire":
		return model.PaymentExpired, true
	case "refund", "partial_refund":
		return model.PaymentRefunded, true
	}
	return "", false
}

// HandleNotification webhook gateway. Notifikasi untuk order yang tidak dikenal atau
// transisi yang tidak valid (mis. expire datang setelah paid) di-log lalu diabaikan
// supaya gateway tidak retry terus.
func (s *TransactionService) HandleNotification(ctx context.Context, n txDTO.MidtransNotification, now time.Time) (*model.TransactionModel, error) {
	if !s.Gateway.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, n.SignatureKey) {
		return nil, ErrInvalidSignature
	}
	to, ok := MapMidtransStatus(n.TransactionStatus, n.FraudStatus)
	if !ok {
		log.Info().Str("order_id", n.OrderID).Str("status", n.TransactionStatus).Msg("[PAYMENT] notifikasi tidak diproses")
		return nil, nil
	}

	payload := datatypes.JSONMap{
		"transaction_status": n.TransactionStatus,
		"status_code":        n.StatusCode,
		"gross_amount":       n.GrossAmount,
		"payment_type":       n.PaymentType,
		"fraud_status":       n.FraudStatus,
		"transaction_id":     n.TransactionID,
	}
	t, _, err := s.transition(ctx, func(tx *gorm.DB, t *model.TransactionModel) error {
		if err := forUpdate(tx).Where("code = ?", n.OrderID).First(t).Error; err != nil {
			return err
		}
		return tx.Model(t).Update("gateway_payload", payload).Error
	}, to, now)

	var fErr *fiber.Error
	if errors.As(err, &fErr) && (fErr.Code == fiber.StatusNotFound || fErr.Code == fiber.StatusConflict) {
		log.Warn().Str("order_id", n.OrderID).Str("status", string(to)).Str("reason", fErr.Message).
			Msg("[PAYMENT] notifikasi diabaikan")
		return nil, nil
	}
	return t, err
}

/* ==========================
   READ
========================== */

func (s *TransactionService) List(ctx context.Context, q txDTO.ListTransactionQuery, pg helper.Paging) ([]model.TransactionModel, int64, error) {
	db := s.DB.WithContext(ctx)
	if q.UserID > 0 {
		db = db.Where("user_id = ?", q.UserID)
	}
	if st := strings.ToLower(strings.TrimSpace(q.PaymentStatus)); st != "" {
		db = db.Where("payment_status = ?", st)
	}
	if pt := strings.ToLower(strings.TrimSpace(q.PurchasableType)); pt != "" {
		db = db.Where("purchasable_type = ?", pt)
	}
	if kw := strings.ToUpper(strings.TrimSpace(q.Q)); kw != "" {
		db = db.Where("code LIKE ?", "%"+kw+"%")
	}
	order := q.OrderBy
	if order == "" {
		order = "created_at DESC"
	}
	rows, total, err := helper.Paged[model.TransactionModel](db, order, pg)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return rows, total, nil
}

// GetByCode milik user; userID 0 = admin (tanpa filter pemilik).
func (s *TransactionService) GetByCode(ctx context.Context, userID uint, code string) (*model.TransactionModel, error) {
	db := s.DB.WithContext(ctx).Where("code = ?", strings.TrimSpace(code))
	if userID > 0 {
		db = db.Where("user_id = ?", userID)
	}
	var t model.TransactionModel
	if err := db.First(&t).Error; err != nil {
		return nil, txNotFound(err)
	}
	return &t, nil
}

func (s *TransactionService) Get(ctx context.Context, id uint) (*model.TransactionModel, error) {
	var t model.TransactionModel
	if err := s.DB.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, txNotFound(err)
	}
	return &t, nil
}
