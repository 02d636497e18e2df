package details

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gymku_backend/internals/configs"
	txService "gymku_backend/internals/features/payment/transactions/service"
	"gymku_backend/internals/helpers/cache"
	"gymku_backend/internals/helpers/metrics"
	"gymku_backend/internals/helpers/storage"
)

// Deps dependency bersama yang dibangun sekali di cmd serve.
type Deps struct {
	DB      *gorm.DB
	Cfg     *configs.Config
	Cache   cache.Cache
	Disk    storage.Disk
	Metrics *metrics.Metrics
	Gateway txService.Gateway
	Loc     *time.Location
}

// Mount fungsi pemasang route per area akses (nil = fitur tidak punya route di area itu).
// Semua Public dipasang sebelum group ber-auth dibuat, karena middleware group
// "/api/v1" ikut menangkap route yang didaftarkan setelahnya.
type Mount struct {
	Public  func(api fiber.Router)
	User    func(user fiber.Router)
	Trainer func(trainer fiber.Router)
	Admin   func(admin fiber.Router)
}
