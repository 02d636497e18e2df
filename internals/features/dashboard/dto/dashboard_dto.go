package dto

import "time"

type AdminDashboard struct {
	TotalUsers     int64 `json:"total_users"`
	ActiveMembers  int64 `json:"active_members"`
	MonthlyRevenue int64 `json:"monthly_revenue"`
	ActiveClasses  int64 `json:"active_classes"`
	TodayVisits    int64 `json:"today_visits"`
	ActiveTrainers int64 `json:"active_trainers"`
}

type PackageCount struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

type TrainerDashboard struct {
	PersonalTrainerID uint             `json:"personal_trainer_id"`
	SessionsThisMonth int64            `json:"sessions_this_month"`
	SessionsThisWeek  int64            `json:"sessions_this_week"`
	TotalClients      int64            `json:"total_clients"`
	SessionsByStatus  map[string]int64 `json:"sessions_by_status"`
	MostTakenPackage  *PackageCount    `json:"most_taken_package"`
}

type ActiveMembership struct {
	MembershipPackageID uint      `json:"membership_package_id"`
	PackageName         string    `json:"package_name"`
	StartDate           time.Time `json:"start_date"`
	EndDate             time.Time `json:"end_date"`
	DaysLeft            int       `json:"days_left"`
}

type MemberDashboard struct {
	TotalVisits       int64             `json:"total_visits"`
	AttendedClasses   int64             `json:"attended_classes"`
	CompletedSessions int64             `json:"completed_sessions"`
	TotalSpent        int64             `json:"total_spent"`
	ActiveMembership  *ActiveMembership `json:"active_membership"`
}
