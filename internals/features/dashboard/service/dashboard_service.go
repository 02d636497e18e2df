package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"gymku_backend/internals/constants"
	dashDTO "gymku_backend/internals/features/dashboard/dto"
	gymClassModel "gymku_backend/internals/features/gym_classes/model"
	visitModel "gymku_backend/internals/features/gym_visits/model"
	membershipModel "gymku_backend/internals/features/memberships/model"
	txModel "gymku_backend/internals/features/payment/transactions/model"
	trainerModel "gymku_backend/internals/features/trainers/model"
	userModel "gymku_backend/internals/features/users/users/model"
	"gymku_backend/internals/helpers/cache"
	"gymku_backend/internals/helpers/dbtime"
)

// DashboardService agregasi read-only; hasil di-cache per key (lihat cache.DashboardPrefix).
type DashboardService struct {
	DB    *gorm.DB
	Cache cache.Cache
	Loc   *time.Location
	TTL   time.Duration
}

func NewDashboardService(db *gorm.DB, c cache.Cache, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{DB: db, Cache: c, Loc: loc, TTL: cache.DefaultTTL}
}

func AdminKey() string { return cache.DashboardPrefix + "admin" }
func TrainerKey(trainerID uint) string { return fmt.Sprintf("%strainer:%d", cache.DashboardPrefix, trainerID) }
func MemberKey(userID uint) string { return fmt.Sprintf("%smember:%d", cache.DashboardPrefix, userID) }

func count(db *gorm.DB, out *int64) error {
	return db.Count(out).Error
}

/* ==========================
   ADMIN
========================== */

func (s *DashboardService) Admin(ctx context.Context, now time.Time) (dashDTO.AdminDashboard, error) {
	return cache.Remember(ctx, s.Cache, AdminKey(), s.TTL, func() (dashDTO.AdminDashboard, error) {
		return s.computeAdmin(ctx, now)
	})
}

func (s *DashboardService) computeAdmin(ctx context.Context, now time.Time) (dashDTO.AdminDashboard, error) {
	var out dashDTO.AdminDashboard
	db := s.DB.WithContext(ctx)
	monthStart, monthEnd := dbtime.MonthBounds(now, s.Loc)
	today := dbtime.DateOnly(now, s.Loc)

	if err := count(db.Model(&userModel.UserModel{}), &out.TotalUsers); err != nil {
		return out, fmt.Errorf("count users: %w", err)
	}
	if err := count(db.Model(&userModel.UserModel{}).
		Where("membership_status = ?", userModel.MembershipActive), &out.ActiveMembers); err != nil {
		return out, fmt.Errorf("count active members: %w", err)
	}
	if err := db.Model(&txModel.TransactionModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("payment_status = ? AND created_at >= ? AND created_at < ?", txModel.PaymentPaid, monthStart.UTC(), monthEnd.UTC()).
		Scan(&out.MonthlyRevenue).Error; err != nil {
		return out, fmt.Errorf("sum revenue: %w", err)
	}
	if err := count(db.Model(&gymClassModel.GymClassModel{}).
		Where("status = ?", gymClassModel.ClassActive), &out.ActiveClasses); err != nil {
		return out, fmt.Errorf("count classes: %w", err)
	}
	if err := count(db.Model(&visitModel.GymVisitModel{}).
		Where("visit_date = ?", today), &out.TodayVisits); err != nil {
		return out, fmt.Errorf("count visits: %w", err)
	}
	if err := count(db.Model(&trainerModel.PersonalTrainerModel{}).
		Joins("JOIN users u ON u.id = personal_trainers.user_personal_trainer_id AND u.deleted_at IS NULL").
		Where("u.role = ?", constants.RoleTrainer), &out.ActiveTrainers); err != nil {
		return out, fmt.Errorf("count trainers: %w", err)
	}
	return out, nil
}

/* ==========================
   TRAINER
========================== */

func (s *DashboardService) Trainer(ctx context.Context, trainerID uint, now time.Time) (dashDTO.TrainerDashboard, error) {
	return cache.Remember(ctx, s.Cache, TrainerKey(trainerID), s.TTL, func() (dashDTO.TrainerDashboard, error) {
		return s.computeTrainer(ctx, trainerID, now)
	})
}

func (s *DashboardService) computeTrainer(ctx context.Context, trainerID uint, now time.Time) (dashDTO.TrainerDashboard, error) {
	out := dashDTO.TrainerDashboard{PersonalTrainerID: trainerID, SessionsByStatus: map[string]int64{}}
	db := s.DB.WithContext(ctx)

	sessions := func() *gorm.DB {
		return db.Model(&trainerModel.PersonalTrainerScheduleModel{}).
			Joins("JOIN personal_trainer_assignments a ON a.id = personal_trainer_schedules.personal_trainer_assignment_id").
			Where("a.personal_trainer_id = ?", trainerID)
	}

	ms, me := dbtime.MonthBounds(now, s.Loc)
	if err := count(sessions().Where("personal_trainer_schedules.scheduled_at >= ? AND personal_trainer_schedules.scheduled_at < ?", ms.UTC(), me.UTC()), &out.SessionsThisMonth); err != nil {
		return out, fmt.Errorf("count month sessions: %w", err)
	}
	ws, we := dbtime.WeekBounds(now, s.Loc)
	if err := count(sessions().Where("personal_trainer_schedules.scheduled_at >= ? AND personal_trainer_schedules.scheduled_at < ?", ws.UTC(), we.UTC()), &out.SessionsThisWeek); err != nil {
		return out, fmt.Errorf("count week sessions: %w", err)
	}

	if err := db.Model(&trainerModel.PersonalTrainerAssignmentModel{}).
		Where("personal_trainer_id = ?", trainerID).
		Distinct("user_id").Count(&out.TotalClients).Error; err != nil {
		return out, fmt.Errorf("count clients: %w", err)
	}

	var byStatus []struct {
		Status string
		Total  int64
	}
	if err := sessions().
		Select("personal_trainer_schedules.status AS status, COUNT(*) AS total").
		Group("personal_trainer_schedules.status").
		Scan(&byStatus).Error; err != nil {
		return out, fmt.Errorf("group sessions: %w", err)
	}
	for _, r := range byStatus {
		out.SessionsByStatus[r.Status] = r.Total
	}

	var top []dashDTO.PackageCount
	if err := db.Model(&trainerModel.PersonalTrainerAssignmentModel{}).
		Select("p.id AS id, p.name AS name, COUNT(*) AS total").
		Joins("JOIN personal_trainer_packages p ON p.id = personal_trainer_assignments.personal_trainer_package_id").
		Where("personal_trainer_assignments.personal_trainer_id = ?", trainerID).
		Group("p.id, p.name").
		Order("total DESC, p.id ASC").
		Limit(1).
		Scan(&top).Error; err != nil {
		return out, fmt.Errorf("top package: %w", err)
	}
	if len(top) > 0 {
		out.MostTakenPackage = &top[0]
	}
	return out, nil
}

/* ==========================
   MEMBER
========================== */

func (s *DashboardService) Member(ctx context.Context, userID uint, now time.Time) (dashDTO.MemberDashboard, error) {
	return cache.Remember(ctx, s.Cache, MemberKey(userID), s.TTL, func() (dashDTO.MemberDashboard, error) {
		return s.computeMember(ctx, userID, now)
	})
}

func (s *DashboardService) computeMember(ctx context.Context, userID uint, now time.Time) (dashDTO.MemberDashboard, error) {
	var out dashDTO.MemberDashboard
	db := s.DB.WithContext(ctx)
	now = now.UTC()

	if err := count(db.Model(&visitModel.GymVisitModel{}).Where("user_id = ?", userID), &out.TotalVisits); err != nil {
		return out, fmt.Errorf("count visits: %w", err)
	}
	if err := count(db.Model(&gymClassModel.GymClassAttendanceModel{}).
		Where("user_id = ? AND status = ?", userID, gymClassModel.AttendanceAttended), &out.AttendedClasses); err != nil {
		return out, fmt.Errorf("count attendances: %w", err)
	}
	if err := count(db.Model(&trainerModel.PersonalTrainerScheduleModel{}).
		Joins("JOIN personal_trainer_assignments a ON a.id = personal_trainer_schedules.personal_trainer_assignment_id").
		Where("a.user_id = ? AND personal_trainer_schedules.status = ?", userID, trainerModel.SessionCompleted), &out.CompletedSessions); err != nil {
		return out, fmt.Errorf("count sessions: %w", err)
	}
	if err := db.Model(&txModel.TransactionModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND payment_status = ?", userID, txModel.PaymentPaid).
		Scan(&out.TotalSpent).Error; err != nil {
		return out, fmt.Errorf("sum spent: %w", err)
	}

	var h membershipModel.MembershipHistoryModel
	err := db.Preload("MembershipPackage").
		Where("user_id = ? AND status = ? AND start_date <= ? AND end_date > ?", userID, membershipModel.HistoryActive, now, now).
		Order("end_date DESC").
		First(&h).Error
	switch {
	case err == nil:
		am := &dashDTO.ActiveMembership{
			MembershipPackageID: h.MembershipPackageID,
			StartDate:           h.StartDate,
			EndDate:             h.EndDate,
			DaysLeft:            dbtime.DaysBetween(now.In(s.Loc), h.EndDate.In(s.Loc)),
		}
		if h.MembershipPackage != nil {
			am.PackageName = h.MembershipPackage.Name
		}
		out.ActiveMembership = am
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return out, fmt.Errorf("active membership: %w", err)
	}
	return out, nil
}
