package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	questionSetModel "academykit_backend/internals/features/assessments/question_sets/model"
	courseService "academykit_backend/internals/features/courses/courses/service"
	dto "academykit_backend/internals/features/courses/lessons/dto"
	model "academykit_backend/internals/features/courses/lessons/model"
	sectionService "academykit_backend/internals/features/courses/sections/service"
	meetingModel "academykit_backend/internals/features/meetings/meetings/model"
	meetingService "academykit_backend/internals/features/meetings/meetings/service"
	helper "academykit_backend/internals/helpers"
)

type LessonService struct {
	DB        *gorm.DB
	Scheduler *meetingService.Scheduler
}

func NewLessonService(db *gorm.DB, sch *meetingService.Scheduler) *LessonService {
	return &LessonService{DB: db, Scheduler: sch}
}

// Load finds a lesson of the course by id or slug.
func Load(ctx context.Context, db *gorm.DB, courseID uuid.UUID, identity string) (*model.LessonModel, error) {
	var l model.LessonModel
	q := helper.IdentityWhere(db.WithContext(ctx), "id", "slug", identity).Where("course_id = ?", courseID)
	if err := q.Take(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("lesson not found")
		}
		return nil, err
	}
	return &l, nil
}

// LoadByIdentity finds a lesson by id or its globally unique slug.
func LoadByIdentity(ctx context.Context, db *gorm.DB, identity string) (*model.LessonModel, error) {
	var l model.LessonModel
	if err := helper.IdentityWhere(db.WithContext(ctx), "id", "slug", identity).Take(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("lesson not found")
		}
		return nil, err
	}
	return &l, nil
}

/* =========================================================
   READ
   ========================================================= */

// List returns the lessons of a course, optionally narrowed to one section.
// Learners only see published lessons.
func (s *LessonService) List(ctx context.Context, actor helper.CurrentUser, courseIdentity, sectionIdentity string) ([]dto.LessonResponse, error) {
	a, err := courseService.RequireLearner(ctx, s.DB, actor, courseIdentity)
	if err != nil {
		return nil, err
	}
	q := s.DB.WithContext(ctx).Where("lessons.course_id = ?", a.Course.ID)
	if sectionIdentity != "" {
		sec, err := sectionService.Load(ctx, s.DB, a.Course.ID, sectionIdentity)
		if err != nil {
			return nil, err
		}
		q = q.Where("lessons.section_id = ?", sec.ID)
	}
	if !a.CanManage() {
		q = q.Where("lessons.status = ?", constants.StatusPublished)
	}
	var rows []model.LessonModel
	if err := q.Joins("JOIN sections s ON s.id = lessons.section_id").
		Order(`s."order" ASC, lessons."order" ASC, lessons.created_on ASC`).Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.decorate(ctx, actor.ID, rows)
}

func (s *LessonService) Get(ctx context.Context, actor helper.CurrentUser, courseIdentity, identity string) (*dto.LessonResponse, error) {
	a, err := courseService.RequireLearner(ctx, s.DB, actor, courseIdentity)
	if err != nil {
		return nil, err
	}
	l, err := Load(ctx, s.DB, a.Course.ID, identity)
	if err != nil {
		return nil, err
	}
	if !a.CanManage() && l.Status != constants.StatusPublished {
		return nil, helper.ErrNotFound("lesson not found")
	}
	out, err := s.decorate(ctx, actor.ID, []model.LessonModel{*l})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// decorate attaches the caller's watch state plus exam and meeting summaries.
func (s *LessonService) decorate(ctx context.Context, userID uuid.UUID, rows []model.LessonModel) ([]dto.LessonResponse, error) {
	out := make([]dto.LessonResponse, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	var setIDs, meetingIDs []uuid.UUID
	for _, l := range rows {
		ids = append(ids, l.ID)
		if l.QuestionSetID != nil {
			setIDs = append(setIDs, *l.QuestionSetID)
		}
		if l.MeetingID != nil {
			meetingIDs = append(meetingIDs, *l.MeetingID)
		}
	}

	var history []model.WatchHistoryModel
	if err := s.DB.WithContext(ctx).Where("lesson_id IN ? AND user_id = ?", ids, userID).Find(&history).Error; err != nil {
		return nil, err
	}
	watched := make(map[uuid.UUID]model.WatchHistoryModel, len(history))
	for _, h := range history {
		watched[h.LessonID] = h
	}

	exams := map[uuid.UUID]*dto.ExamLite{}
	if len(setIDs) > 0 {
		var sets []questionSetModel.QuestionSetModel
		if err := s.DB.WithContext(ctx).Where("id IN ?", setIDs).Find(&sets).Error; err != nil {
			return nil, err
		}
		type countRow struct {
			QuestionSetID uuid.UUID
			N             int64
		}
		var counts []countRow
		if err := s.DB.WithContext(ctx).Model(&questionSetModel.QuestionSetQuestionModel{}).
			Select("question_set_id, COUNT(*) AS n").Where("question_set_id IN ?", setIDs).
			Group("question_set_id").Scan(&counts).Error; err != nil {
			return nil, err
		}
		n := map[uuid.UUID]int64{}
		for _, c := range counts {
			n[c.QuestionSetID] = c.N
		}
		for _, qs := range sets {
			exams[qs.ID] = &dto.ExamLite{
				QuestionSetID:    qs.ID,
				Slug:             qs.Slug,
				PassingWeightage: qs.PassingWeightage,
				AllowedRetake:    qs.AllowedRetake,
				Duration:         qs.Duration,
				StartTime:        qs.StartTime,
				EndTime:          qs.EndTime,
				QuestionCount:    n[qs.ID],
			}
		}
	}

	lives := map[uuid.UUID]*dto.LiveLite{}
	if len(meetingIDs) > 0 {
		var meetings []meetingModel.MeetingModel
		if err := s.DB.WithContext(ctx).Where("id IN ?", meetingIDs).Find(&meetings).Error; err != nil {
			return nil, err
		}
		for _, m := range meetings {
			lives[m.ID] = &dto.LiveLite{MeetingID: m.ID, ZoomLicenseID: m.ZoomLicenseID, StartDate: m.StartDate, Duration: m.Duration}
		}
	}

	for _, l := range rows {
		h := watched[l.ID]
		r := dto.LessonResponse{
			LessonModel:       l,
			WatchedPercentage: h.WatchedPercentage,
			IsCompleted:       h.IsCompleted,
			IsPassed:          h.IsPassed,
		}
		if l.QuestionSetID != nil {
			r.Exam = exams[*l.QuestionSetID]
		}
		if l.MeetingID != nil {
			r.Live = lives[*l.MeetingID]
		}
		out = append(out, r)
	}
	return out, nil
}

/* =========================================================
   WRITE
   ========================================================= */

func applyExam(qs *questionSetModel.QuestionSetModel, e *dto.ExamSettings) {
	qs.NegativeMarking = e.NegativeMarking
	qs.QuestionMarking = e.QuestionMarking
	if qs.QuestionMarking <= 0 {
		qs.QuestionMarking = 1
	}
	qs.PassingWeightage = e.PassingWeightage
	qs.AllowedRetake = e.AllowedRetake
	qs.Duration = e.Duration
	qs.StartTime = e.StartTime
	qs.EndTime = e.EndTime
}

// Create stores the lesson at the end of its section. Exam lessons get their question set
// and live classes their Zoom meeting inside the same transaction.
func (s *LessonService) Create(ctx context.Context, actor helper.CurrentUser, courseIdentity string, req dto.LessonRequest) (*model.LessonModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a, err := courseService.RequireManage(ctx, s.DB, actor, courseIdentity)
	if err != nil {
		return nil, err
	}
	sec, err := sectionService.Load(ctx, s.DB, a.Course.ID, req.SectionIdentity)
	if err != nil {
		return nil, err
	}

	l := &model.LessonModel{CourseID: a.Course.ID, SectionID: sec.ID, Type: req.Type, Audit: helper.NewAudit(actor.ID)}
	req.Apply(l)

	var booked *meetingModel.MeetingModel
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		if err := tx.Model(&model.LessonModel{}).Where("section_id = ?", sec.ID).
			Select(`COALESCE(MAX("order"), 0)`).Scan(&maxOrder).Error; err != nil {
			return err
		}
		l.Order = maxOrder + 1
		slug, err := helper.EnsureUniqueSlugCI(ctx, tx, "lessons", "slug", req.Name, nil, 0)
		if err != nil {
			return err
		}
		l.Slug = slug

		if req.Type == constants.LessonExam {
			setSlug, err := helper.EnsureUniqueSlugCI(ctx, tx, "question_sets", "slug", req.Name, nil, 0)
			if err != nil {
				return err
			}
			qs := &questionSetModel.QuestionSetModel{Name: req.Name, Slug: setSlug, Description: req.Description, ThumbnailURL: req.ThumbnailURL, Audit: helper.NewAudit(actor.ID)}
			applyExam(qs, req.Exam)
			if err := tx.Create(qs).Error; err != nil {
				return err
			}
			l.QuestionSetID = &qs.ID
		}
		if err := tx.Create(l).Error; err != nil {
			return err
		}

		if req.Type == constants.LessonLiveClass {
			if s.Scheduler == nil {
				return helper.ErrUnavailable("zoom is not configured", nil)
			}
			m, err := s.Scheduler.Schedule(ctx, tx, meetingService.ScheduleInput{
				Topic:     a.Course.Name + " - " + l.Name,
				LicenseID: req.Live.ZoomLicenseID,
				StartDate: req.Live.StartDate,
				Duration:  req.Live.Duration,
				LessonID:  &l.ID,
				By:        actor.ID,
			})
			if err != nil {
				return err
			}
			booked = m
			l.MeetingID = &m.ID
			if err := tx.Model(l).Update("meeting_id", m.ID).Error; err != nil {
				return err
			}
		}
		return courseService.RecalculateDuration(ctx, tx, a.Course.ID)
	})
	if err != nil {
		if booked != nil {
			s.Scheduler.Discard(ctx, booked.MeetingNumber)
		}
		return nil, err
	}
	return l, nil
}

// Update edits a lesson. The type is fixed once created.
func (s *LessonService) Update(ctx context.Context, actor helper.CurrentUser, courseIdentity, identity string, req dto.LessonRequest) (*model.LessonModel, error) {
	a, err := courseService.RequireManage(ctx, s.DB, actor, courseIdentity)
	if err != nil {
		return nil, err
	}
	l, err := Load(ctx, s.DB, a.Course.ID, identity)
	if err != nil {
		return nil, err
	}
	if req.Type != l.Type {
		return nil, helper.ErrFieldValidation("type", "lesson type cannot be changed")
	}
	if l.Type == constants.LessonLiveClass && req.Live == nil && l.MeetingID != nil {
		// no live block: keep the booked slot
		m, err := meetingService.LoadMeeting(ctx, s.DB, *l.MeetingID)
		if err != nil {
			return nil, err
		}
		req.Live = &dto.LiveSettings{ZoomLicenseID: m.ZoomLicenseID, StartDate: m.StartDate, Duration: m.Duration}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	sec, err := sectionService.Load(ctx, s.DB, a.Course.ID, req.SectionIdentity)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if sec.ID != l.SectionID {
			var maxOrder int
			if err := tx.Model(&model.LessonModel{}).Where("section_id = ?", sec.ID).
				Select(`COALESCE(MAX("order"), 0)`).Scan(&maxOrder).Error; err != nil {
				return err
			}
			l.SectionID, l.Order = sec.ID, maxOrder+1
		}
		if l.Name != req.Name {
			slug, err := helper.EnsureUniqueSlugCI(ctx, tx, "lessons", "slug", req.Name, helper.ExcludeID("id", l.ID), 0)
			if err != nil {
				return err
			}
			l.Slug = slug
		}
		req.Apply(l)
		l.Touch(actor.ID)

		if l.QuestionSetID != nil && req.Exam != nil {
			var qs questionSetModel.QuestionSetModel
			if err := tx.Take(&qs, "id = ?", *l.QuestionSetID).Error; err != nil {
				return err
			}
			qs.Name = req.Name
			applyExam(&qs, req.Exam)
			qs.Touch(actor.ID)
			if err := tx.Save(&qs).Error; err != nil {
				return err
			}
		}
		if l.MeetingID != nil {
			m, err := meetingService.LoadMeeting(ctx, tx, *l.MeetingID)
			if err != nil {
				return err
			}
			changed := m.ZoomLicenseID != req.Live.ZoomLicenseID || !m.StartDate.Equal(req.Live.StartDate.UTC()) || m.Duration != req.Live.Duration
			if changed {
				if s.Scheduler == nil {
					return helper.ErrUnavailable("zoom is not configured", nil)
				}
				if err := s.Scheduler.Reschedule(ctx, tx, m, meetingService.ScheduleInput{
					Topic:     a.Course.Name + " - " + l.Name,
					LicenseID: req.Live.ZoomLicenseID,
					StartDate: req.Live.StartDate,
					Duration:  req.Live.Duration,
					LessonID:  &l.ID,
					By:        actor.ID,
				}); err != nil {
					return err
				}
			}
		}
		if err := tx.Save(l).Error; err != nil {
			return err
		}
		return courseService.RecalculateDuration(ctx, tx, a.Course.ID)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Delete removes the lesson with its watch history, question set or meeting, then
// refreshes course duration and enrollment progress.
func (s *LessonService) Delete(ctx context.Context, actor helper.CurrentUser, courseIdentity, identity string) error {
	a, err := courseService.RequireManage(ctx, s.DB, actor, courseIdentity)
	if err != nil {
		return err
	}
	l, err := Load(ctx, s.DB, a.Course.ID, identity)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if l.QuestionSetID != nil {
			if err := tx.Model(&questionSetModel.QuestionSetModel{}).Where("id = ?", *l.QuestionSetID).
				Updates(map[string]any{"is_deleted": true, "updated_by": actor.ID, "updated_on": time.Now().UTC()}).Error; err != nil {
				return err
			}
		}
		if l.MeetingID != nil {
			m, err := meetingService.LoadMeeting(ctx, tx, *l.MeetingID)
			switch {
			case err == nil:
				if s.Scheduler != nil {
					if err := s.Scheduler.Cancel(ctx, tx, m); err != nil {
						return err
					}
				} else if err := tx.Delete(m).Error; err != nil {
					return err
				}
			case helper.Classify(err).Status != 404:
				return err
			}
		}
		if err := tx.Where("lesson_id = ?", l.ID).Delete(&model.WatchHistoryModel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(l).Error; err != nil {
			return err
		}
		if err := courseService.RecalculateDuration(ctx, tx, a.Course.ID); err != nil {
			return err
		}
		return courseService.RecomputeCourse(ctx, tx, a.Course.ID)
	})
}

// Reorder rewrites the order of the lessons inside one section.
func (s *LessonService) Reorder(ctx context.Context, actor helper.CurrentUser, courseIdentity string, req dto.ReorderRequest) error {
	a, err := courseService.RequireManage(ctx, s.DB, actor, courseIdentity)
	if err != nil {
		return err
	}
	sec, err := sectionService.Load(ctx, s.DB, a.Course.ID, req.SectionIdentity)
	if err != nil {
		return err
	}
	var existing []uuid.UUID
	if err := s.DB.WithContext(ctx).Model(&model.LessonModel{}).Where("section_id = ?", sec.ID).Pluck("id", &existing).Error; err != nil {
		return err
	}
	if err := sectionService.CheckReorder(existing, req.IDs); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range req.IDs {
			if err := tx.Model(&model.LessonModel{}).Where("id = ?", id).
				Updates(map[string]any{"order": i + 1, "updated_by": actor.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

/* =========================================================
   WATCH HISTORY
   ========================================================= */

// Watch records progress of an enrolled trainee on one lesson.
func (s *LessonService) Watch(ctx context.Context, actor helper.CurrentUser, courseIdentity, identity string, req dto.WatchRequest) (*dto.WatchResponse, error) {
	a, err := courseService.ResolveAccess(ctx, s.DB, actor, courseIdentity)
	if err != nil {
		return nil, err
	}
	if a.Enrollment == nil {
		return nil, helper.ErrForbidden("only enrolled trainees record progress")
	}
	l, err := Load(ctx, s.DB, a.Course.ID, identity)
	if err != nil {
		return nil, err
	}
	if l.Status != constants.StatusPublished {
		return nil, helper.ErrNotFound("lesson not found")
	}
	if req.IsCompleted && !dto.CompletableByWatch(l.Type) {
		return nil, helper.ErrFieldValidation("is_completed", l.Type+" lessons are completed by submitting them")
	}

	enr, err := courseService.RecordProgress(ctx, s.DB, courseService.LessonProgress{
		CourseID:          a.Course.ID,
		LessonID:          l.ID,
		UserID:            actor.ID,
		WatchedPercentage: req.WatchedPercentage,
		IsCompleted:       req.IsCompleted,
		IsPassed:          req.IsCompleted,
	})
	if err != nil {
		return nil, err
	}
	var h model.WatchHistoryModel
	if err := s.DB.WithContext(ctx).Where("lesson_id = ? AND user_id = ?", l.ID, actor.ID).Take(&h).Error; err != nil {
		return nil, err
	}
	log.Debug().Str("lesson_id", l.ID.String()).Int("percentage", enr.Percentage).Msg("[LESSON] progress recorded")
	return &dto.WatchResponse{
		LessonID:          l.ID,
		Percentage:        enr.Percentage,
		EnrollmentStatus:  enr.Status,
		CurrentLessonID:   l.ID,
		WatchedPercentage: h.WatchedPercentage,
	}, nil
}
