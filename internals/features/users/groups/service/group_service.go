package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	courseModel "academykit_backend/internals/features/courses/courses/model"
	dto "academykit_backend/internals/features/users/groups/dto"
	model "academykit_backend/internals/features/users/groups/model"
	userModel "academykit_backend/internals/features/users/users/model"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/jobs"
	"academykit_backend/internals/helpers/mailer"
)

var sortColumns = map[string]string{
	"created_on": "created_on",
	"name":       "name",
}

type GroupService struct {
	DB   *gorm.DB
	Jobs jobs.Enqueuer
}

func NewGroupService(db *gorm.DB, q jobs.Enqueuer) *GroupService {
	return &GroupService{DB: db, Jobs: q}
}

// visible limits non-admins to the groups they are members of.
func visible(q *gorm.DB, actor helper.CurrentUser) *gorm.DB {
	if actor.IsAdmin() {
		return q
	}
	return q.Where("id IN (?)", q.Session(&gorm.Session{NewDB: true}).
		Model(&model.GroupMemberModel{}).Select("group_id").
		Where("user_id = ? AND is_active", actor.ID))
}

func (s *GroupService) List(ctx context.Context, actor helper.CurrentUser, p helper.Params) ([]dto.GroupResponse, helper.Pagination, error) {
	q := visible(s.DB.WithContext(ctx).Model(&model.GroupModel{}), actor)
	if like := p.SearchLike(); like != "" {
		q = q.Where("LOWER(name) LIKE ?", like)
	}
	var rows []model.GroupModel
	pg, err := helper.Paginate(q, p, p.OrderClause(sortColumns, "created_on"), &rows)
	if err != nil {
		return nil, pg, err
	}
	out := make([]dto.GroupResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	if err := s.fillCounts(ctx, out); err != nil {
		return nil, pg, err
	}
	return out, pg, nil
}

func (s *GroupService) fillCounts(ctx context.Context, groups []dto.GroupResponse) error {
	if len(groups) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	type row struct {
		GroupID uuid.UUID
		N       int64
	}
	var members, courses []row
	if err := s.DB.WithContext(ctx).Model(&model.GroupMemberModel{}).
		Select("group_id, COUNT(*) AS n").Where("group_id IN ?", ids).
		Group("group_id").Scan(&members).Error; err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Model(&courseModel.CourseModel{}).
		Select("group_id, COUNT(*) AS n").Where("group_id IN ?", ids).
		Group("group_id").Scan(&courses).Error; err != nil {
		return err
	}
	mc := map[uuid.UUID]int64{}
	cc := map[uuid.UUID]int64{}
	for _, r := range members {
		mc[r.GroupID] = r.N
	}
	for _, r := range courses {
		cc[r.GroupID] = r.N
	}
	for i := range groups {
		groups[i].MemberCount = mc[groups[i].ID]
		groups[i].CourseCount = cc[groups[i].ID]
	}
	return nil
}

func (s *GroupService) load(ctx context.Context, identity string) (*model.GroupModel, error) {
	var g model.GroupModel
	if err := helper.IdentityWhere(s.DB.WithContext(ctx), "id", "slug", identity).Take(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("group not found")
		}
		return nil, err
	}
	return &g, nil
}

// Get returns 404 rather than 403 for groups the caller cannot see.
func (s *GroupService) Get(ctx context.Context, actor helper.CurrentUser, identity string) (*dto.GroupResponse, error) {
	g, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		ok, err := s.IsMember(ctx, g.ID, actor.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, helper.ErrNotFound("group not found")
		}
	}
	out := []dto.GroupResponse{dto.FromModel(g)}
	if err := s.fillCounts(ctx, out); err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *GroupService) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&model.GroupMemberModel{}).
		Where("group_id = ? AND user_id = ? AND is_active", groupID, userID).Count(&n).Error
	return n > 0, err
}

func (s *GroupService) Create(ctx context.Context, by uuid.UUID, req dto.GroupRequest) (*model.GroupModel, error) {
	slug, err := helper.EnsureUniqueSlugCI(ctx, s.DB, "groups", "slug", req.Name, nil, 0)
	if err != nil {
		return nil, err
	}
	g := &model.GroupModel{Name: req.Name, Slug: slug, IsActive: true, Audit: helper.NewAudit(by)}
	if req.IsActive != nil {
		g.IsActive = *req.IsActive
	}
	if err := s.DB.WithContext(ctx).Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GroupService) Update(ctx context.Context, by uuid.UUID, identity string, req dto.GroupRequest) (*model.GroupModel, error) {
	g, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}
	if g.Name != req.Name {
		slug, err := helper.EnsureUniqueSlugCI(ctx, s.DB, "groups", "slug", req.Name, helper.ExcludeID("id", g.ID), 0)
		if err != nil {
			return nil, err
		}
		g.Name, g.Slug = req.Name, slug
	}
	if req.IsActive != nil {
		g.IsActive = *req.IsActive
	}
	g.Touch(by)
	if err := s.DB.WithContext(ctx).Save(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

// Delete removes the group and its members. Groups still attached to courses are kept.
func (s *GroupService) Delete(ctx context.Context, identity string) error {
	g, err := s.load(ctx, identity)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&courseModel.CourseModel{}).Where("group_id = ?", g.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return helper.ErrConflict("group is still used by courses")
		}
		if err := tx.Where("group_id = ?", g.ID).Delete(&model.GroupMemberModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(g).Error
	})
}

func (s *GroupService) Members(ctx context.Context, actor helper.CurrentUser, identity string, p helper.Params) ([]dto.MemberResponse, helper.Pagination, error) {
	gr, err := s.Get(ctx, actor, identity)
	if err != nil {
		return nil, helper.Pagination{}, err
	}
	q := s.DB.WithContext(ctx).Table("group_members gm").
		Select(`gm.id, gm.user_id, TRIM(u.first_name || ' ' || u.last_name) AS name, u.email, u.role, gm.is_active, gm.created_on AS joined_on`).
		Joins("JOIN users u ON u.id = gm.user_id AND u.deleted_at IS NULL").
		Where("gm.group_id = ?", gr.ID)
	if like := p.SearchLike(); like != "" {
		q = q.Where("(LOWER(u.first_name || ' ' || u.last_name) LIKE ? OR LOWER(u.email) LIKE ?)", like, like)
	}
	var out []dto.MemberResponse
	pg, err := helper.Paginate(q, p, "gm.created_on DESC", &out)
	return out, pg, err
}

// AddMembers adds existing active users by email. Unknown, inactive and duplicate emails are reported, not failed.
func (s *GroupService) AddMembers(ctx context.Context, by uuid.UUID, identity string, req dto.AddMembersRequest) (*dto.AddMembersResult, error) {
	g, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}
	res := &dto.AddMembersResult{Added: []string{}, NotFound: []string{}, AlreadyMembers: []string{}, Inactive: []string{}}

	var users []userModel.UserModel
	if err := s.DB.WithContext(ctx).Where("LOWER(email) IN ?", req.Emails).Find(&users).Error; err != nil {
		return nil, err
	}
	byEmail := make(map[string]*userModel.UserModel, len(users))
	ids := make([]uuid.UUID, 0, len(users))
	for i := range users {
		byEmail[strings.ToLower(users[i].Email)] = &users[i]
		ids = append(ids, users[i].ID)
	}

	var existing []uuid.UUID
	if len(ids) > 0 {
		if err := s.DB.WithContext(ctx).Model(&model.GroupMemberModel{}).
			Where("group_id = ? AND user_id IN ?", g.ID, ids).Pluck("user_id", &existing).Error; err != nil {
			return nil, err
		}
	}
	member := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		member[id] = true
	}

	var rows []model.GroupMemberModel
	var added []*userModel.UserModel
	for _, email := range req.Emails {
		u, ok := byEmail[email]
		switch {
		case !ok:
			res.NotFound = append(res.NotFound, email)
		case u.Status != constants.UserActive:
			res.Inactive = append(res.Inactive, email)
		case member[u.ID]:
			res.AlreadyMembers = append(res.AlreadyMembers, email)
		default:
			rows = append(rows, model.GroupMemberModel{GroupID: g.ID, UserID: u.ID, IsActive: true, Audit: helper.NewAudit(by)})
			added = append(added, u)
			res.Added = append(res.Added, email)
		}
	}
	if len(rows) > 0 {
		if err := s.DB.WithContext(ctx).Create(&rows).Error; err != nil {
			return nil, err
		}
	}
	for _, u := range added {
		mailer.Enqueue(ctx, s.Jobs, constants.MailGroupMemberAdded,
			mailer.Recipient{Name: u.FullName(), Email: u.Email},
			map[string]any{"Name": u.FullName(), "GroupName": g.Name, "GroupSlug": g.Slug})
	}
	return res, nil
}

func (s *GroupService) RemoveMember(ctx context.Context, identity string, memberID uuid.UUID) error {
	g, err := s.load(ctx, identity)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Where("id = ? AND group_id = ?", memberID, g.ID).Delete(&model.GroupMemberModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.ErrNotFound("member not found")
	}
	return nil
}

// UserGroupIDs returns the active group memberships of a user.
func UserGroupIDs(ctx context.Context, db *gorm.DB, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	if err := db.WithContext(ctx).Model(&model.GroupMemberModel{}).
		Where("user_id = ? AND is_active", userID).Pluck("group_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
