package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	model "academykit_backend/internals/features/notifications/notifications/model"
	helper "academykit_backend/internals/helpers"
)

// Notify inserts one unread notification per user. db may be a transaction.
func Notify(ctx context.Context, db *gorm.DB, userIDs []uuid.UUID, title, message string) error {
	if len(userIDs) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]bool, len(userIDs))
	rows := make([]model.NotificationModel, 0, len(userIDs))
	for _, id := range userIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, model.NotificationModel{UserID: id, Title: title, Message: message, Audit: helper.NewAudit(id)})
	}
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(&rows, 200).Error
}

// NotifyOrLog is Notify for side effects that must not fail the request that triggered them.
func NotifyOrLog(ctx context.Context, db *gorm.DB, userIDs []uuid.UUID, title, message string) {
	if err := Notify(ctx, db, userIDs, title, message); err != nil {
		log.Warn().Err(err).Str("title", title).Int("recipients", len(userIDs)).Msg("[NOTIFY] insert failed")
	}
}

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService { return &NotificationService{DB: db} }

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, p helper.Params) ([]model.NotificationModel, helper.Pagination, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.NotificationModel{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("NOT is_read")
	}
	var rows []model.NotificationModel
	pg, err := helper.Paginate(q, p, "created_on DESC", &rows)
	if err != nil {
		return nil, pg, 0, err
	}
	var unread int64
	err = s.DB.WithContext(ctx).Model(&model.NotificationModel{}).Where("user_id = ? AND NOT is_read", userID).Count(&unread).Error
	return rows, pg, unread, err
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Model(&model.NotificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"is_read": true, "updated_by": userID, "updated_on": gorm.Expr("now()")})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.ErrNotFound("notification not found")
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&model.NotificationModel{}).
		Where("user_id = ? AND NOT is_read", userID).
		Updates(map[string]any{"is_read": true, "updated_by": userID, "updated_on": gorm.Expr("now()")})
	return res.RowsAffected, res.Error
}
