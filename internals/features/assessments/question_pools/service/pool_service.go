package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	dto "academykit_backend/internals/features/assessments/question_pools/dto"
	model "academykit_backend/internals/features/assessments/question_pools/model"
	questionSetModel "academykit_backend/internals/features/assessments/question_sets/model"
	notify "academykit_backend/internals/features/notifications/notifications/service"
	userModel "academykit_backend/internals/features/users/users/model"
	helper "academykit_backend/internals/helpers"
)

type PoolService struct {
	DB *gorm.DB
}

func NewPoolService(db *gorm.DB) *PoolService { return &PoolService{DB: db} }

// PoolAccess is the caller's standing on one pool.
type PoolAccess struct {
	Pool  *model.QuestionPoolModel
	Role  string // "", Creator or Author
	Admin bool
}

// CanManage covers renaming, deleting and managing teachers.
func (a PoolAccess) CanManage() bool { return a.Admin || a.Role == constants.PoolCreator }

// CanEdit covers question changes.
func (a PoolAccess) CanEdit() bool { return a.CanManage() || a.Role == constants.PoolAuthor }

// ResolvePool loads a pool by id or slug and answers 404 to users with no role on it.
func ResolvePool(ctx context.Context, db *gorm.DB, actor helper.CurrentUser, identity string) (*PoolAccess, error) {
	var p model.QuestionPoolModel
	if err := helper.IdentityWhere(db.WithContext(ctx), "id", "slug", identity).Take(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("question pool not found")
		}
		return nil, err
	}
	a := &PoolAccess{Pool: &p, Admin: actor.IsAdmin()}
	var t model.QuestionPoolTeacherModel
	res := db.WithContext(ctx).Where("question_pool_id = ? AND user_id = ?", p.ID, actor.ID).Limit(1).Find(&t)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		a.Role = t.Role
	}
	if !a.CanEdit() {
		return nil, helper.ErrNotFound("question pool not found")
	}
	return a, nil
}

var poolSortColumns = map[string]string{
	"name":       "question_pools.name",
	"created_on": "question_pools.created_on",
}

// List shows admins every pool and trainers the pools they belong to.
func (s *PoolService) List(ctx context.Context, actor helper.CurrentUser, p helper.Params) ([]dto.PoolResponse, helper.Pagination, error) {
	q := s.DB.WithContext(ctx).Model(&model.QuestionPoolModel{})
	if !actor.IsAdmin() {
		q = q.Where("question_pools.id IN (?)", s.DB.Model(&model.QuestionPoolTeacherModel{}).Select("question_pool_id").Where("user_id = ?", actor.ID))
	}
	if like := p.SearchLike(); like != "" {
		q = q.Where("LOWER(question_pools.name) LIKE ?", like)
	}
	var rows []model.QuestionPoolModel
	pg, err := helper.Paginate(q, p, p.OrderClause(poolSortColumns, "created_on"), &rows)
	if err != nil {
		return nil, pg, err
	}
	out, err := s.decorate(ctx, actor.ID, rows)
	return out, pg, err
}

func (s *PoolService) decorate(ctx context.Context, userID uuid.UUID, rows []model.QuestionPoolModel) ([]dto.PoolResponse, error) {
	out := make([]dto.PoolResponse, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	type countRow struct {
		QuestionPoolID uuid.UUID
		N              int64
	}
	var counts []countRow
	if err := s.DB.WithContext(ctx).Model(&model.QuestionPoolQuestionModel{}).
		Select("question_pool_id, COUNT(*) AS n").Where("question_pool_id IN ?", ids).
		Group("question_pool_id").Scan(&counts).Error; err != nil {
		return nil, err
	}
	n := map[uuid.UUID]int64{}
	for _, c := range counts {
		n[c.QuestionPoolID] = c.N
	}
	var roles []model.QuestionPoolTeacherModel
	if err := s.DB.WithContext(ctx).Where("question_pool_id IN ? AND user_id = ?", ids, userID).Find(&roles).Error; err != nil {
		return nil, err
	}
	role := map[uuid.UUID]string{}
	for _, r := range roles {
		role[r.QuestionPoolID] = r.Role
	}
	for i, r := range rows {
		out[i] = dto.PoolResponse{ID: r.ID, Name: r.Name, Slug: r.Slug, QuestionCount: n[r.ID], Role: role[r.ID], CreatedOn: r.CreatedOn}
	}
	return out, nil
}

func (s *PoolService) Get(ctx context.Context, actor helper.CurrentUser, identity string) (*dto.PoolResponse, error) {
	a, err := ResolvePool(ctx, s.DB, actor, identity)
	if err != nil {
		return nil, err
	}
	out, err := s.decorate(ctx, actor.ID, []model.QuestionPoolModel{*a.Pool})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *PoolService) nameTaken(ctx context.Context, name string, except *uuid.UUID) (bool, error) {
	q := s.DB.WithContext(ctx).Model(&model.QuestionPoolModel{}).Where("LOWER(name) = LOWER(?)", name)
	if except != nil {
		q = q.Where("id <> ?", *except)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

// Create stores the pool with the caller as its Creator.
func (s *PoolService) Create(ctx context.Context, actor helper.CurrentUser, req dto.PoolRequest) (*dto.PoolResponse, error) {
	taken, err := s.nameTaken(ctx, req.Name, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, helper.ErrConflict("a question pool with this name already exists")
	}
	p := &model.QuestionPoolModel{Name: req.Name, Audit: helper.NewAudit(actor.ID)}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := helper.EnsureUniqueSlugCI(ctx, tx, "question_pools", "slug", req.Name, nil, 0)
		if err != nil {
			return err
		}
		p.Slug = slug
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.Create(&model.QuestionPoolTeacherModel{
			QuestionPoolID: p.ID, UserID: actor.ID, Role: constants.PoolCreator, Audit: helper.NewAudit(actor.ID),
		}).Error
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("a question pool with this name already exists")
		}
		return nil, err
	}
	return &dto.PoolResponse{ID: p.ID, Name: p.Name, Slug: p.Slug, Role: constants.PoolCreator, CreatedOn: p.CreatedOn}, nil
}

func (s *PoolService) Update(ctx context.Context, actor helper.CurrentUser, identity string, req dto.PoolRequest) (*dto.PoolResponse, error) {
	a, err := ResolvePool(ctx, s.DB, actor, identity)
	if err != nil {
		return nil, err
	}
	if !a.CanManage() {
		return nil, helper.ErrForbidden("only the pool creator or an admin can rename a pool")
	}
	p := a.Pool
	if p.Name != req.Name {
		taken, err := s.nameTaken(ctx, req.Name, &p.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, helper.ErrConflict("a question pool with this name already exists")
		}
		slug, err := helper.EnsureUniqueSlugCI(ctx, s.DB, "question_pools", "slug", req.Name, helper.ExcludeID("id", p.ID), 0)
		if err != nil {
			return nil, err
		}
		p.Name, p.Slug = req.Name, slug
	}
	p.Touch(actor.ID)
	if err := s.DB.WithContext(ctx).Omit("Teachers", "Questions").Save(p).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, p.ID.String())
}

// Delete removes the pool with its questions unless a question set still uses one of them.
func (s *PoolService) Delete(ctx context.Context, actor helper.CurrentUser, identity string) error {
	a, err := ResolvePool(ctx, s.DB, actor, identity)
	if err != nil {
		return err
	}
	if !a.CanManage() {
		return helper.ErrForbidden("only the pool creator or an admin can delete a pool")
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		poolQuestions := tx.Model(&model.QuestionPoolQuestionModel{}).Select("id").Where("question_pool_id = ?", a.Pool.ID)
		var used int64
		if err := tx.Model(&questionSetModel.QuestionSetQuestionModel{}).
			Where("question_pool_question_id IN (?)", poolQuestions).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return helper.ErrConflict("questions of this pool are used in question sets")
		}
		var questionIDs []uuid.UUID
		if err := tx.Model(&model.QuestionPoolQuestionModel{}).Where("question_pool_id = ?", a.Pool.ID).
			Pluck("question_id", &questionIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("question_pool_id = ?", a.Pool.ID).Delete(&model.QuestionPoolQuestionModel{}).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.QuestionOptionModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", questionIDs).Delete(&model.QuestionModel{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("question_pool_id = ?", a.Pool.ID).Delete(&model.QuestionPoolTeacherModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(a.Pool).Error
	})
}

/* =========================================================
   TEACHERS
   ========================================================= */

func (s *PoolService) Teachers(ctx context.Context, actor helper.CurrentUser, identity string) ([]dto.TeacherResponse, error) {
	a, err := ResolvePool(ctx, s.DB, actor, identity)
	if err != nil {
		return nil, err
	}
	var out []dto.TeacherResponse
	err = s.DB.WithContext(ctx).Table("question_pool_teachers pt").
		Select(`pt.id, pt.user_id, TRIM(u.first_name || ' ' || u.last_name) AS name, u.email, pt.role`).
		Joins("JOIN users u ON u.id = pt.user_id").
		Where("pt.question_pool_id = ?", a.Pool.ID).
		Order("pt.created_on ASC").Scan(&out).Error
	return out, err
}

// AddTeacher grants an active trainer the Author role on the pool.
func (s *PoolService) AddTeacher(ctx context.Context, actor helper.CurrentUser, identity string, req dto.AddTeacherRequest) (*dto.TeacherResponse, error) {
	a, err := ResolvePool(ctx, s.DB, actor, identity)
	if err != nil {
		return nil, err
	}
	if !a.CanManage() {
		return nil, helper.ErrForbidden("only the pool creator or an admin can add teachers")
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
		return nil, helper.ErrFieldValidation("email", "only active trainers can author questions")
	}
	t := model.QuestionPoolTeacherModel{QuestionPoolID: a.Pool.ID, UserID: u.ID, Role: constants.PoolAuthor, Audit: helper.NewAudit(actor.ID)}
	if err := s.DB.WithContext(ctx).Create(&t).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("user already belongs to this pool")
		}
		return nil, err
	}
	notify.NotifyOrLog(ctx, s.DB, []uuid.UUID{u.ID}, "Question pool "+a.Pool.Name, "You can now author questions in "+a.Pool.Name+".")
	return &dto.TeacherResponse{ID: t.ID, UserID: u.ID, Name: u.FullName(), Email: u.Email, Role: t.Role}, nil
}

func (s *PoolService) RemoveTeacher(ctx context.Context, actor helper.CurrentUser, identity string, teacherID uuid.UUID) error {
	a, err := ResolvePool(ctx, s.DB, actor, identity)
	if err != nil {
		return err
	}
	if !a.CanManage() {
		return helper.ErrForbidden("only the pool creator or an admin can remove teachers")
	}
	var t model.QuestionPoolTeacherModel
	res := s.DB.WithContext(ctx).Where("id = ? AND question_pool_id = ?", teacherID, a.Pool.ID).Limit(1).Find(&t)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.ErrNotFound("teacher not found")
	}
	if t.Role == constants.PoolCreator {
		return helper.ErrConflict("the pool creator cannot be removed")
	}
	return s.DB.WithContext(ctx).Delete(&t).Error
}
