package controller

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	trainerDTO "gymku_backend/internals/features/trainers/dto"
	"gymku_backend/internals/features/trainers/model"
	"gymku_backend/internals/features/trainers/service"
	helper "gymku_backend/internals/helpers"
)

// AssignmentController melayani tiga sisi: admin, member (assignment sendiri)
// dan trainer (assignment & sesi miliknya).
type AssignmentController struct {
	DB          *gorm.DB
	Assignments *service.AssignmentService
	Sessions    *service.SessionService
	Now         func() time.Time
}

func NewAssignmentController(db *gorm.DB, a *service.AssignmentService, s *service.SessionService) *AssignmentController {
	return &AssignmentController{DB: db, Assignments: a, Sessions: s, Now: time.Now}
}

// trainerID id PersonalTrainer milik user login (403 kalau belum terdaftar).
func (ctl *AssignmentController) trainerID(c *fiber.Ctx) (uint, error) {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return 0, err
	}
	t, err := service.TrainerByUser(c.UserContext(), ctl.DB, uid)
	if err != nil {
		return 0, err
	}
	return t.ID, nil
}

func (ctl *AssignmentController) list(c *fiber.Ctx, q trainerDTO.ListAssignmentQuery) error {
	pg := helper.ResolvePaging(c, 20, 100)
	q.Status = c.Query("status")
	rows, total, err := ctl.Assignments.List(c.UserContext(), q, pg)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Assignments fetched", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(rows)))
}

/* ==========================
   ADMIN  /admin/assignments
========================== */

func (ctl *AssignmentController) AdminList(c *fiber.Ctx) error {
	return ctl.list(c, trainerDTO.ListAssignmentQuery{
		UserID:    uint(c.QueryInt("user_id", 0)),
		TrainerID: uint(c.QueryInt("trainer_id", 0)),
	})
}

func (ctl *AssignmentController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	a, err := ctl.Assignments.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", a)
}

func (ctl *AssignmentController) Create(c *fiber.Ctx) error {
	var in trainerDTO.CreateAssignmentRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	a, err := ctl.Assignments.Create(c.UserContext(), in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Assignment berhasil dibuat", a)
}

func (ctl *AssignmentController) Pause(c *fiber.Ctx) error {
	return ctl.transition(c, ctl.Assignments.Pause, "Assignment di-pause")
}

func (ctl *AssignmentController) Resume(c *fiber.Ctx) error {
	return ctl.transition(c, ctl.Assignments.Resume, "Assignment dilanjutkan")
}

func (ctl *AssignmentController) Complete(c *fiber.Ctx) error {
	return ctl.transition(c, ctl.Assignments.Complete, "Assignment selesai")
}

type assignmentTransition func(ctx context.Context, id uint, now time.Time) (*model.PersonalTrainerAssignmentModel, error)

func (ctl *AssignmentController) transition(c *fiber.Ctx, fn assignmentTransition, msg string) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	a, err := fn(c.UserContext(), id, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, msg, a)
}

func (ctl *AssignmentController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Assignments.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Assignment berhasil dihapus", fiber.Map{"id": id})
}

// GET /admin/assignments/:id/sessions
func (ctl *AssignmentController) AdminSessions(c *fiber.Ctx) error {
	return ctl.listSessions(c, 0)
}

// POST /admin/assignments/:id/sessions
func (ctl *AssignmentController) AdminCreateSession(c *fiber.Ctx) error {
	return ctl.createSession(c, 0)
}

func (ctl *AssignmentController) AdminUpdateSession(c *fiber.Ctx) error {
	return ctl.updateSession(c, 0)
}

func (ctl *AssignmentController) AdminDeleteSession(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Sessions.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Sesi berhasil dihapus", fiber.Map{"id": id})
}

/* ==========================
   MEMBER
========================== */

// GET /assignments
func (ctl *AssignmentController) Mine(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	return ctl.list(c, trainerDTO.ListAssignmentQuery{UserID: uid})
}

// POST /assignment-sessions/:id/feedback
func (ctl *AssignmentController) Feedback(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in trainerDTO.FeedbackRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	sess, err := ctl.Sessions.Feedback(c.UserContext(), id, uid, in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Feedback tersimpan", sess)
}

/* ==========================
   TRAINER  /trainer
========================== */

// GET /trainer/assignments
func (ctl *AssignmentController) TrainerAssignments(c *fiber.Ctx) error {
	tid, err := ctl.trainerID(c)
	if err != nil {
		return err
	}
	return ctl.list(c, trainerDTO.ListAssignmentQuery{TrainerID: tid})
}

// GET /trainer/assignments/:id/sessions
func (ctl *AssignmentController) TrainerSessions(c *fiber.Ctx) error {
	tid, err := ctl.trainerID(c)
	if err != nil {
		return err
	}
	return ctl.listSessions(c, tid)
}

// POST /trainer/assignments/:id/sessions
func (ctl *AssignmentController) TrainerCreateSession(c *fiber.Ctx) error {
	tid, err := ctl.trainerID(c)
	if err != nil {
		return err
	}
	return ctl.createSession(c, tid)
}

// PATCH /trainer/sessions/:id
func (ctl *AssignmentController) TrainerUpdateSession(c *fiber.Ctx) error {
	tid, err := ctl.trainerID(c)
	if err != nil {
		return err
	}
	return ctl.updateSession(c, tid)
}

// POST /trainer/sessions/:id/check-in
func (ctl *AssignmentController) SessionCheckIn(c *fiber.Ctx) error {
	tid, err := ctl.trainerID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	sess, err := ctl.Sessions.CheckIn(c.UserContext(), id, tid, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Sesi dimulai", sess)
}

// POST /trainer/sessions/:id/check-out
func (ctl *AssignmentController) SessionCheckOut(c *fiber.Ctx) error {
	tid, err := ctl.trainerID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	sess, err := ctl.Sessions.CheckOut(c.UserContext(), id, tid, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Sesi selesai", sess)
}

/* ===== shared ===== */

func (ctl *AssignmentController) listSessions(c *fiber.Ctx, trainerID uint) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	pg := helper.ResolvePaging(c, 50, 200)
	rows, total, err := ctl.Sessions.ListByAssignment(c.UserContext(), id, trainerID, pg)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Sessions fetched", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(rows)))
}

func (ctl *AssignmentController) createSession(c *fiber.Ctx, trainerID uint) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in trainerDTO.CreateSessionRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	sess, err := ctl.Sessions.Create(c.UserContext(), id, trainerID, in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Sesi berhasil dibuat", sess)
}

func (ctl *AssignmentController) updateSession(c *fiber.Ctx, trainerID uint) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in trainerDTO.UpdateSessionRequest
	if err := helper.ParseBody(c, &in); err != nil {
		return err
	}
	sess, err := ctl.Sessions.Update(c.UserContext(), id, trainerID, in, ctl.Now())
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Sesi berhasil diperbarui", sess)
}
