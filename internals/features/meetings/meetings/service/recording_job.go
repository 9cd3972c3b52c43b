package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	lessonModel "academykit_backend/internals/features/courses/lessons/model"
	dto "academykit_backend/internals/features/meetings/meetings/dto"
	"academykit_backend/internals/helpers/jobs"
	"academykit_backend/internals/helpers/storage"
	"academykit_backend/internals/helpers/zoom"
)

// RecordingImporter copies finished Zoom recordings into storage.
type RecordingImporter struct {
	DB      *gorm.DB
	Zoom    *zoom.Client
	Storage storage.Provider
	Prefix  string
}

// Handler is registered for TopicRecording. Returned errors are retried by the queue.
func (ri *RecordingImporter) Handler() jobs.Handler {
	return func(ctx context.Context, payload []byte) error {
		job, err := jobs.Decode[dto.RecordingJob](payload)
		if err != nil {
			log.Error().Err(err).Msg("[ZOOM] drop malformed recording job")
			return nil
		}
		return ri.Import(ctx, job)
	}
}

// Import stores the recording and turns the live-class lesson into a recorded video.
func (ri *RecordingImporter) Import(ctx context.Context, job dto.RecordingJob) error {
	file, ok := dto.PickRecording(job.Files)
	if !ok {
		log.Info().Int64("meeting_number", job.MeetingNumber).Msg("[ZOOM] recording has no mp4 file")
		return nil
	}
	var lesson lessonModel.LessonModel
	res := ri.DB.WithContext(ctx).
		Joins("JOIN meetings m ON m.id = lessons.meeting_id").
		Where("m.meeting_number = ?", job.MeetingNumber).
		Limit(1).Find(&lesson)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Info().Int64("meeting_number", job.MeetingNumber).Msg("[ZOOM] recording for unknown meeting")
		return nil
	}

	body, size, err := ri.Zoom.DownloadRecording(ctx, file.DownloadURL, job.DownloadToken)
	if err != nil {
		return err
	}
	defer body.Close()
	if size <= 0 {
		size = file.FileSize
	}
	key := storage.BuildKey(ri.Prefix, "recordings", lesson.ID.String()+".mp4")
	obj, err := ri.Storage.Put(ctx, key, body, size, "video/mp4")
	if err != nil {
		return err
	}
	log.Info().Str("lesson_id", lesson.ID.String()).Str("key", obj.Key).Msg("[ZOOM] recording imported")

	return ri.DB.WithContext(ctx).Model(&lesson).Updates(map[string]any{
		"video_url":  obj.URL,
		"type":       constants.LessonRecordedVideo,
		"updated_on": time.Now().UTC(),
	}).Error
}
