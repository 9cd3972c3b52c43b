package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dto "academykit_backend/internals/features/system/logs/dto"
	model "academykit_backend/internals/features/system/logs/model"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/logger"
)

type LogService struct {
	DB *gorm.DB
}

func NewLogService(db *gorm.DB) *LogService {
	return &LogService{DB: db}
}

func (s *LogService) List(ctx context.Context, f dto.ListQuery, p helper.Params) ([]model.LogModel, helper.Pagination, error) {
	from, to, err := f.Range()
	if err != nil {
		return nil, helper.Pagination{}, err
	}
	q := s.DB.WithContext(ctx).Model(&model.LogModel{})
	if f.Level != "" {
		q = q.Where("level = ?", f.Level)
	}
	if from != nil {
		q = q.Where("timestamp >= ?", *from)
	}
	if to != nil {
		q = q.Where("timestamp <= ?", *to)
	}
	if like := p.SearchLike(); like != "" {
		q = q.Where("(LOWER(message) LIKE ? OR LOWER(logger) LIKE ?)", like, like)
	}
	var rows []model.LogModel
	pg, err := helper.Paginate(q, p, p.OrderClause(map[string]string{"timestamp": "timestamp", "level": "level"}, "timestamp"), &rows)
	return rows, pg, err
}

func (s *LogService) Get(ctx context.Context, id uuid.UUID) (*model.LogModel, error) {
	var m model.LogModel
	if err := s.DB.WithContext(ctx).Take(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("log not found")
		}
		return nil, err
	}
	return &m, nil
}

// Sink writes batches from logger.PersistWriter into the logs table.
type Sink struct {
	DB *gorm.DB
}

func (s Sink) SaveLogs(ctx context.Context, entries []logger.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]model.LogModel, len(entries))
	for i, e := range entries {
		rows[i] = ToModel(e)
	}
	// a failing insert must not be logged back into the writer
	return s.DB.WithContext(ctx).Session(&gorm.Session{Logger: gormlogger.Discard}).CreateInBatches(rows, 100).Error
}

func ToModel(e logger.Entry) model.LogModel {
	m := model.LogModel{Level: e.Level, Message: e.Message, Logger: e.Logger, Timestamp: e.Timestamp}
	if e.Exception != "" {
		exc := e.Exception
		m.Exception = &exc
	}
	return m
}
