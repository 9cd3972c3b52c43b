package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	dto "academykit_backend/internals/features/courses/courses/dto"
	model "academykit_backend/internals/features/courses/courses/model"
	lessonModel "academykit_backend/internals/features/courses/lessons/model"
	levelModel "academykit_backend/internals/features/courses/levels/model"
	sectionModel "academykit_backend/internals/features/courses/sections/model"
	tagModel "academykit_backend/internals/features/courses/tags/model"
	notify "academykit_backend/internals/features/notifications/notifications/service"
	groupModel "academykit_backend/internals/features/users/groups/model"
	userModel "academykit_backend/internals/features/users/users/model"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/export"
	"academykit_backend/internals/helpers/jobs"
	"academykit_backend/internals/helpers/mailer"
)

var sortColumns = map[string]string{
	"created_on": "courses.created_on",
	"updated_on": "courses.updated_on",
	"name":       "courses.name",
}

type CourseService struct {
	DB   *gorm.DB
	Jobs jobs.Enqueuer
	now  func() time.Time
}

func NewCourseService(db *gorm.DB, q jobs.Enqueuer) *CourseService {
	return &CourseService{DB: db, Jobs: q, now: time.Now}
}

/* =========================================================
   LIST / DETAIL
   ========================================================= */

func (s *CourseService) List(ctx context.Context, actor helper.CurrentUser, f dto.ListQuery, p helper.Params) ([]dto.CourseResponse, helper.Pagination, error) {
	q := s.DB.WithContext(ctx).Model(&model.CourseModel{})

	if !actor.IsAdmin() {
		teaching := s.DB.Model(&model.CourseTeacherModel{}).Select("course_id").Where("user_id = ?", actor.ID)
		enrolled := s.DB.Model(&model.CourseEnrollmentModel{}).Select("course_id").Where("user_id = ?", actor.ID)
		groups := s.DB.Model(&groupModel.GroupMemberModel{}).Select("group_id").Where("user_id = ? AND is_active", actor.ID)
		q = q.Where(
			"(courses.id IN (?) OR courses.id IN (?) OR (courses.status = ? AND (courses.group_id IS NULL OR courses.group_id IN (?))))",
			teaching, enrolled, constants.StatusPublished, groups,
		)
	}
	if f.Status != "" {
		q = q.Where("courses.status = ?", f.Status)
	}
	if f.LevelID != nil {
		q = q.Where("courses.level_id = ?", *f.LevelID)
	}
	if f.GroupID != nil {
		q = q.Where("courses.group_id = ?", *f.GroupID)
	}
	switch f.EnrollmentStatus {
	case "":
	case "NotEnrolled":
		q = q.Where("courses.id NOT IN (?)", s.DB.Model(&model.CourseEnrollmentModel{}).Select("course_id").Where("user_id = ?", actor.ID))
	case constants.EnrollmentEnrolled, constants.EnrollmentCompleted:
		q = q.Where("courses.id IN (?)", s.DB.Model(&model.CourseEnrollmentModel{}).Select("course_id").
			Where("user_id = ? AND status = ?", actor.ID, f.EnrollmentStatus))
	default:
		return nil, helper.Pagination{}, helper.ErrFieldValidation("enrollment_status", "enrollment_status must be Enrolled, Completed or NotEnrolled")
	}
	if like := p.SearchLike(); like != "" {
		q = q.Where("LOWER(courses.name) LIKE ?", like)
	}

	var rows []model.CourseModel
	pg, err := helper.Paginate(q, p, p.OrderClause(sortColumns, "created_on"), &rows)
	if err != nil {
		return nil, pg, err
	}
	out, err := s.decorate(ctx, actor, rows)
	return out, pg, err
}

// decorate fills tags, level and group names and the caller's enrollment for a page of courses.
func (s *CourseService) decorate(ctx context.Context, actor helper.CurrentUser, rows []model.CourseModel) ([]dto.CourseResponse, error) {
	out := make([]dto.CourseResponse, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(rows))
	var levelIDs, groupIDs []uuid.UUID
	for i := range rows {
		out[i] = dto.FromModel(&rows[i])
		ids[i] = rows[i].ID
		if rows[i].LevelID != nil {
			levelIDs = append(levelIDs, *rows[i].LevelID)
		}
		if rows[i].GroupID != nil {
			groupIDs = append(groupIDs, *rows[i].GroupID)
		}
	}
	db := s.DB.WithContext(ctx)

	var tags []struct {
		CourseID uuid.UUID
		dto.TagLite
	}
	if err := db.Table("course_tags ct").Select("ct.course_id, t.id, t.name, t.slug").
		Joins("JOIN tags t ON t.id = ct.tag_id").Where("ct.course_id IN ?", ids).
		Order("t.name").Scan(&tags).Error; err != nil {
		return nil, err
	}
	byCourse := map[uuid.UUID][]dto.TagLite{}
	for _, t := range tags {
		byCourse[t.CourseID] = append(byCourse[t.CourseID], t.TagLite)
	}

	levelNames := map[uuid.UUID]string{}
	if len(levelIDs) > 0 {
		var levels []levelModel.LevelModel
		if err := db.Where("id IN ?", levelIDs).Find(&levels).Error; err != nil {
			return nil, err
		}
		for _, l := range levels {
			levelNames[l.ID] = l.Name
		}
	}
	groupNames := map[uuid.UUID]string{}
	if len(groupIDs) > 0 {
		var groups []groupModel.GroupModel
		if err := db.Where("id IN ?", groupIDs).Find(&groups).Error; err != nil {
			return nil, err
		}
		for _, g := range groups {
			groupNames[g.ID] = g.Name
		}
	}

	var enrollments []model.CourseEnrollmentModel
	if err := db.Where("user_id = ? AND course_id IN ?", actor.ID, ids).Find(&enrollments).Error; err != nil {
		return nil, err
	}
	enrolled := map[uuid.UUID]*model.CourseEnrollmentModel{}
	for i := range enrollments {
		enrolled[enrollments[i].CourseID] = &enrollments[i]
	}
	var teaching []uuid.UUID
	if err := db.Model(&model.CourseTeacherModel{}).Where("user_id = ? AND course_id IN ?", actor.ID, ids).
		Pluck("course_id", &teaching).Error; err != nil {
		return nil, err
	}
	teaches := map[uuid.UUID]bool{}
	for _, id := range teaching {
		teaches[id] = true
	}

	for i := range out {
		if t := byCourse[out[i].ID]; t != nil {
			out[i].Tags = t
		}
		if out[i].LevelID != nil {
			out[i].LevelName = levelNames[*out[i].LevelID]
		}
		if out[i].GroupID != nil {
			out[i].GroupName = groupNames[*out[i].GroupID]
		}
		out[i].Enrollment = dto.EnrollmentFromModel(enrolled[out[i].ID])
		out[i].IsTeacher = teaches[out[i].ID]
	}
	return out, nil
}

// Detail hides unpublished or group-restricted courses from outsiders behind a 404.
func (s *CourseService) Detail(ctx context.Context, actor helper.CurrentUser, identity string) (*dto.CourseDetail, error) {
	a, err := ResolveAccess(ctx, s.DB, actor, identity)
	if err != nil {
		return nil, err
	}
	if !a.CanLearn() {
		if a.Course.Status != constants.StatusPublished {
			return nil, helper.ErrNotFound("course not found")
		}
		ok, err := GroupVisible(ctx, s.DB, a.Course, actor.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, helper.ErrNotFound("course not found")
		}
	}

	list, err := s.decorate(ctx, actor, []model.CourseModel{*a.Course})
	if err != nil {
		return nil, err
	}
	out := &dto.CourseDetail{CourseResponse: list[0], Sections: []dto.SectionLite{}}
	if out.Teachers, err = s.teachers(ctx, a.Course.ID); err != nil {
		return nil, err
	}

	var sections []sectionModel.SectionModel
	if err := s.DB.WithContext(ctx).Where("course_id = ? AND NOT is_deleted", a.Course.ID).
		Order(`"order" ASC, created_on ASC`).Find(&sections).Error; err != nil {
		return nil, err
	}
	lq := s.DB.WithContext(ctx).Where("course_id = ?", a.Course.ID)
	if !a.CanManage() {
		lq = lq.Where("status = ?", constants.StatusPublished)
	}
	var lessons []lessonModel.LessonModel
	if err := lq.Order(`"order" ASC, created_on ASC`).Find(&lessons).Error; err != nil {
		return nil, err
	}
	var history []lessonModel.WatchHistoryModel
	if err := s.DB.WithContext(ctx).Where("course_id = ? AND user_id = ?", a.Course.ID, actor.ID).Find(&history).Error; err != nil {
		return nil, err
	}
	watched := map[uuid.UUID]lessonModel.WatchHistoryModel{}
	for _, h := range history {
		watched[h.LessonID] = h
	}

	bySection := map[uuid.UUID][]dto.LessonLite{}
	for _, l := range lessons {
		h := watched[l.ID]
		bySection[l.SectionID] = append(bySection[l.SectionID], dto.LessonLite{
			ID:            l.ID,
			Name:          l.Name,
			Slug:          l.Slug,
			Type:          l.Type,
			Duration:      l.Duration,
			Order:         l.Order,
			IsMandatory:   l.IsMandatory,
			QuestionSetID: l.QuestionSetID,
			MeetingID:     l.MeetingID,
			StartDate:     l.StartDate,
			IsCompleted:   h.IsCompleted,
			IsPassed:      h.IsPassed,
		})
	}
	for _, sec := range sections {
		ls := bySection[sec.ID]
		if ls == nil {
			ls = []dto.LessonLite{}
		}
		out.Sections = append(out.Sections, dto.SectionLite{
			ID: sec.ID, Name: sec.Name, Slug: sec.Slug, Order: sec.Order, Duration: sec.Duration, Lessons: ls,
		})
	}
	return out, nil
}

/* =========================================================
   WRITE
   ========================================================= */

func (s *CourseService) checkRefs(ctx context.Context, levelID, groupID *uuid.UUID, tagIDs []uuid.UUID) error {
	db := s.DB.WithContext(ctx)
	fields := map[string][]string{}
	if levelID != nil {
		var n int64
		if err := db.Model(&levelModel.LevelModel{}).Where("id = ?", *levelID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			fields["level_id"] = []string{"level does not exist"}
		}
	}
	if groupID != nil {
		var n int64
		if err := db.Model(&groupModel.GroupModel{}).Where("id = ?", *groupID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			fields["group_id"] = []string{"group does not exist"}
		}
	}
	if len(tagIDs) > 0 {
		var n int64
		if err := db.Model(&tagModel.TagModel{}).Where("id IN ?", tagIDs).Count(&n).Error; err != nil {
			return err
		}
		if int(n) != len(uniqueIDs(tagIDs)) {
			fields["tag_ids"] = []string{"one or more tags do not exist"}
		}
	}
	if len(fields) > 0 {
		return helper.ErrValidation(fields)
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func replaceTags(tx *gorm.DB, courseID uuid.UUID, tagIDs []uuid.UUID) error {
	if err := tx.Where("course_id = ?", courseID).Delete(&model.CourseTagModel{}).Error; err != nil {
		return err
	}
	tagIDs = uniqueIDs(tagIDs)
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]model.CourseTagModel, len(tagIDs))
	for i, id := range tagIDs {
		rows[i] = model.CourseTagModel{CourseID: courseID, TagID: id}
	}
	return tx.Create(&rows).Error
}

// Create stores a Draft course with the creator as its Author.
func (s *CourseService) Create(ctx context.Context, actor helper.CurrentUser, req dto.CreateCourseRequest) (*model.CourseModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, req.LevelID, req.GroupID, req.TagIDs); err != nil {
		return nil, err
	}
	c := req.ToModel(actor.ID)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := helper.EnsureUniqueSlugCI(ctx, tx, "courses", "slug", c.Name, nil, 0)
		if err != nil {
			return err
		}
		c.Slug = slug
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		author := model.CourseTeacherModel{CourseID: c.ID, UserID: actor.ID, Role: constants.TeacherAuthor, Audit: helper.NewAudit(actor.ID)}
		if err := tx.Create(&author).Error; err != nil {
			return err
		}
		return replaceTags(tx, c.ID, req.TagIDs)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Update marks a published course as carrying unreviewed changes.
func (s *CourseService) Update(ctx context.Context, actor helper.CurrentUser, identity string, req dto.UpdateCourseRequest) (*model.CourseModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a, err := RequireManage(ctx, s.DB, actor, identity)
	if err != nil {
		return nil, err
	}
	c := a.Course
	oldName := c.Name
	if err := req.ApplyTo(c); err != nil {
		return nil, err
	}
	var tagIDs []uuid.UUID
	if req.TagIDs.Set() {
		tagIDs = *req.TagIDs.Value
	}
	if err := s.checkRefs(ctx, c.LevelID, c.GroupID, tagIDs); err != nil {
		return nil, err
	}
	if c.Status == constants.StatusPublished {
		c.IsUpdate = true
	}
	c.Touch(actor.ID)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if c.Name != oldName {
			slug, err := helper.EnsureUniqueSlugCI(ctx, tx, "courses", "slug", c.Name, helper.ExcludeID("id", c.ID), 0)
			if err != nil {
				return err
			}
			c.Slug = slug
		}
		if err := tx.Omit("Tags", "Teachers").Save(c).Error; err != nil {
			return err
		}
		if req.TagIDs.Present {
			return replaceTags(tx, c.ID, tagIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ChangeStatus applies a workflow transition, logs it and tells the people involved.
func (s *CourseService) ChangeStatus(ctx context.Context, actor helper.CurrentUser, identity string, req dto.ChangeStatusRequest) (*model.CourseModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a, err := ResolveAccess(ctx, s.DB, actor, identity)
	if err != nil {
		return nil, err
	}
	c := a.Course
	from := c.Status
	if err := CheckTransition(from, req.Status, c.IsUpdate, *a); err != nil {
		return nil, err
	}

	var recipients []userModel.UserModel
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"status": req.Status, "updated_by": actor.ID, "updated_on": s.now().UTC()}
		if req.Status == constants.StatusPublished || req.Status == constants.StatusRejected {
			updates["is_update"] = false
		}
		if err := tx.Model(c).Updates(updates).Error; err != nil {
			return err
		}
		entry := model.CourseStatusLogModel{CourseID: c.ID, FromStatus: from, ToStatus: req.Status, Message: req.Message, Audit: helper.NewAudit(actor.ID)}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		q := tx.Model(&userModel.UserModel{}).Where("status = ?", constants.UserActive)
		if req.Status == constants.StatusReview {
			q = q.Where("role IN ?", constants.AdminAndAbove)
		} else {
			q = q.Where("id IN (?)", tx.Model(&model.CourseTeacherModel{}).Select("user_id").Where("course_id = ?", c.ID))
		}
		if err := q.Find(&recipients).Error; err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(recipients))
		for _, u := range recipients {
			if u.ID != actor.ID {
				ids = append(ids, u.ID)
			}
		}
		return notify.Notify(ctx, tx, ids, "Course "+c.Name, statusMessage(c.Name, req.Status, helper.Deref(req.Message)))
	})
	if err != nil {
		return nil, err
	}

	mailType := constants.MailCourseStatusChange
	if req.Status == constants.StatusReview {
		mailType = constants.MailCourseReview
	}
	for _, u := range recipients {
		if u.ID == actor.ID {
			continue
		}
		mailer.Enqueue(ctx, s.Jobs, mailType, mailer.Recipient{Name: u.FullName(), Email: u.Email}, map[string]any{
			"Name":       u.FullName(),
			"CourseName": c.Name,
			"CourseSlug": c.Slug,
			"Status":     req.Status,
			"Message":    helper.Deref(req.Message),
		})
	}
	return c, nil
}

func statusMessage(course, status, msg string) string {
	var out string
	switch status {
	case constants.StatusReview:
		out = course + " is waiting for review."
	case constants.StatusPublished:
		out = course + " has been published."
	default:
		out = course + " has been rejected."
	}
	if msg != "" {
		out += " " + msg
	}
	return out
}

type cascadeStep struct {
	table string
	where string
	arg   any
}

// Delete removes a course that nobody has enrolled in, together with its content.
func (s *CourseService) Delete(ctx context.Context, actor helper.CurrentUser, identity string) error {
	a, err := ResolveAccess(ctx, s.DB, actor, identity)
	if err != nil {
		return err
	}
	if !a.Admin && !a.IsAuthor() {
		return helper.ErrForbidden("only the course author or an admin can delete a course")
	}
	c := a.Course
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.CourseEnrollmentModel{}).Where("course_id = ?", c.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return helper.ErrConflict("course has enrollments and cannot be deleted")
		}
		var lessons []lessonModel.LessonModel
		if err := tx.Unscoped().Where("course_id = ?", c.ID).Find(&lessons).Error; err != nil {
			return err
		}
		var setIDs, meetingIDs []uuid.UUID
		for _, l := range lessons {
			if l.QuestionSetID != nil {
				setIDs = append(setIDs, *l.QuestionSetID)
			}
			if l.MeetingID != nil {
				meetingIDs = append(meetingIDs, *l.MeetingID)
			}
		}
		steps := []cascadeStep{
			{"watch_histories", "course_id = ?", c.ID},
			{"lessons", "course_id = ?", c.ID},
			{"sections", "course_id = ?", c.ID},
			{"course_teachers", "course_id = ?", c.ID},
			{"course_tags", "course_id = ?", c.ID},
			{"course_status_logs", "course_id = ?", c.ID},
			{"course_certificates", "course_id = ?", c.ID},
		}
		if len(setIDs) > 0 {
			steps = append(steps, cascadeStep{"question_sets", "id IN ?", setIDs})
		}
		if len(meetingIDs) > 0 {
			steps = append(steps, cascadeStep{"meetings", "id IN ?", meetingIDs})
		}
		for _, st := range steps {
			if err := tx.Exec("DELETE FROM "+st.table+" WHERE "+st.where, st.arg).Error; err != nil {
				return err
			}
		}
		return tx.Delete(c).Error
	})
}

/* =========================================================
   TEACHERS
   ========================================================= */

func (s *CourseService) teachers(ctx context.Context, courseID uuid.UUID) ([]dto.TeacherResponse, error) {
	var out []dto.TeacherResponse
	err := s.DB.WithContext(ctx).Table("course_teachers ct").
		Select(`ct.id, ct.user_id, TRIM(u.first_name || ' ' || u.last_name) AS name, u.email, ct.role`).
		Joins("JOIN users u ON u.id = ct.user_id").
		Where("ct.course_id = ?", courseID).
		Order("ct.created_on ASC").Scan(&out).Error
	return out, err
}

func (s *CourseService) Teachers(ctx context.Context, actor helper.CurrentUser, identity string) ([]dto.TeacherResponse, error) {
	a, err := RequireManage(ctx, s.DB, actor, identity)
	if err != nil {
		return nil, err
	}
	return s.teachers(ctx, a.Course.ID)
}

// AddTeacher adds an active trainer (or above) as Lecturer.
func (s *CourseService) AddTeacher(ctx context.Context, actor helper.CurrentUser, identity string, req dto.AddTeacherRequest) (*dto.TeacherResponse, error) {
	a, err := RequireManage(ctx, s.DB, actor, identity)
	if err != nil {
		return nil, err
	}
	var u userModel.UserModel
	res := s.DB.WithContext(ctx).Where("LOWER(email) = ?", req.Email).Limit(1).Find(&u)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, helper.ErrFieldValidation("email", "no user with this email")
	}
	if u.Status != constants.UserActive || !constants.RoleAtLeast(u.Role, constants.RoleTrainer) {
		return nil, helper.ErrFieldValidation("email", "only active trainers can teach a course")
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&model.CourseEnrollmentModel{}).
		Where("course_id = ? AND user_id = ?", a.Course.ID, u.ID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, helper.ErrConflict("an enrolled user cannot become a teacher")
	}
	t := model.CourseTeacherModel{CourseID: a.Course.ID, UserID: u.ID, Role: constants.TeacherLecturer, Audit: helper.NewAudit(actor.ID)}
	if err := s.DB.WithContext(ctx).Create(&t).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("user already teaches this course")
		}
		return nil, err
	}
	notify.NotifyOrLog(ctx, s.DB, []uuid.UUID{u.ID}, "Course "+a.Course.Name, "You were added as a lecturer of "+a.Course.Name+".")
	return &dto.TeacherResponse{ID: t.ID, UserID: u.ID, Name: u.FullName(), Email: u.Email, Role: t.Role}, nil
}

func (s *CourseService) RemoveTeacher(ctx context.Context, actor helper.CurrentUser, identity string, teacherID uuid.UUID) error {
	a, err := RequireManage(ctx, s.DB, actor, identity)
	if err != nil {
		return err
	}
	var t model.CourseTeacherModel
	res := s.DB.WithContext(ctx).Where("id = ? AND course_id = ?", teacherID, a.Course.ID).Limit(1).Find(&t)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.ErrNotFound("teacher not found")
	}
	if t.Role == constants.TeacherAuthor {
		return helper.ErrConflict("the course author cannot be removed")
	}
	return s.DB.WithContext(ctx).Delete(&t).Error
}

/* =========================================================
   ENROLLMENT
   ========================================================= */

func (s *CourseService) Enroll(ctx context.Context, actor helper.CurrentUser, identity string) (*model.CourseEnrollmentModel, error) {
	a, err := ResolveAccess(ctx, s.DB, actor, identity)
	if err != nil {
		return nil, err
	}
	c := a.Course
	if c.Status != constants.StatusPublished {
		return nil, helper.ErrNotFound("course not found")
	}
	ok, err := GroupVisible(ctx, s.DB, c, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, helper.ErrForbidden("this course is restricted to a group you are not in")
	}
	if a.IsTeacher() {
		return nil, helper.ErrConflict("teachers cannot enroll in their own course")
	}
	if a.Enrollment != nil {
		return nil, helper.ErrConflict("already enrolled")
	}
	now := s.now().UTC()
	if !c.IsOpenAt(now) {
		return nil, helper.ErrConflict("course is not open for enrollment")
	}

	e := &model.CourseEnrollmentModel{
		CourseID:       c.ID,
		UserID:         actor.ID,
		EnrollmentDate: now,
		Status:         constants.EnrollmentEnrolled,
		Audit:          helper.NewAudit(actor.ID),
	}
	if err := s.DB.WithContext(ctx).Create(e).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("already enrolled")
		}
		return nil, err
	}

	if teachers, err := TeacherIDs(ctx, s.DB, c.ID); err == nil {
		notify.NotifyOrLog(ctx, s.DB, teachers, "New enrollment", actor.Name+" enrolled in "+c.Name+".")
	}
	var u userModel.UserModel
	if err := s.DB.WithContext(ctx).Take(&u, "id = ?", actor.ID).Error; err == nil {
		mailer.Enqueue(ctx, s.Jobs, constants.MailCourseEnrollment, mailer.Recipient{Name: u.FullName(), Email: u.Email},
			map[string]any{"Name": u.FullName(), "CourseName": c.Name, "CourseSlug": c.Slug})
	}
	return e, nil
}

func (s *CourseService) Statistics(ctx context.Context, actor helper.CurrentUser, identity string) (*dto.StatisticsResponse, error) {
	a, err := RequireManage(ctx, s.DB, actor, identity)
	if err != nil {
		return nil, err
	}
	id := a.Course.ID
	db := s.DB.WithContext(ctx)
	var out dto.StatisticsResponse
	if err := db.Model(&model.CourseEnrollmentModel{}).Where("course_id = ?", id).
		Select("COUNT(*) AS total_enrollments, COUNT(*) FILTER (WHERE status = ?) AS completed_enrollments, COALESCE(AVG(percentage), 0) AS average_progress", constants.EnrollmentCompleted).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&lessonModel.LessonModel{}).Where("course_id = ?", id).Count(&out.TotalLessons).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.CourseTeacherModel{}).Where("course_id = ?", id).Count(&out.TotalTeachers).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CourseService) enrollmentQuery(ctx context.Context, courseID uuid.UUID, p helper.Params) *gorm.DB {
	q := s.DB.WithContext(ctx).Table("course_enrollments e").
		Select(`e.id, e.user_id, TRIM(u.first_name || ' ' || u.last_name) AS name, u.email, e.status, e.percentage,
			e.enrollment_date, e.completed_on, e.certificate_issued_date`).
		Joins("JOIN users u ON u.id = e.user_id").
		Where("e.course_id = ?", courseID)
	if like := p.SearchLike(); like != "" {
		q = q.Where("(LOWER(u.first_name || ' ' || u.last_name) LIKE ? OR LOWER(u.email) LIKE ?)", like, like)
	}
	return q
}

func (s *CourseService) Enrollments(ctx context.Context, actor helper.CurrentUser, identity string, p helper.Params) ([]dto.EnrollmentRow, helper.Pagination, error) {
	a, err := RequireManage(ctx, s.DB, actor, identity)
	if err != nil {
		return nil, helper.Pagination{}, err
	}
	var out []dto.EnrollmentRow
	pg, err := helper.Paginate(s.enrollmentQuery(ctx, a.Course.ID, p), p, "e.enrollment_date DESC", &out)
	return out, pg, err
}

func (s *CourseService) EnrollmentsTable(ctx context.Context, actor helper.CurrentUser, identity string) (export.Table, string, error) {
	a, err := RequireManage(ctx, s.DB, actor, identity)
	if err != nil {
		return export.Table{}, "", err
	}
	var rows []dto.EnrollmentRow
	if err := s.enrollmentQuery(ctx, a.Course.ID, helper.Params{}).Order("name ASC").Scan(&rows).Error; err != nil {
		return export.Table{}, "", err
	}
	t := export.Table{
		Sheet:   "Enrollments",
		Headers: []string{"Name", "Email", "Status", "Progress (%)", "Enrolled On", "Completed On", "Certificate Issued"},
	}
	for _, r := range rows {
		enrolled := r.EnrollmentDate
		t.Append(r.Name, r.Email, r.Status, strconv.Itoa(r.Percentage), export.FormatTime(&enrolled),
			export.FormatTime(r.CompletedOn), export.FormatTime(r.CertificateIssuedDate))
	}
	return t, a.Course.Slug + "-enrollments", nil
}
