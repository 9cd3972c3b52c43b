package database

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	assessmentModel "academykit_backend/internals/features/assessments/assessments/model"
	assignmentModel "academykit_backend/internals/features/assessments/assignments/model"
	feedbackModel "academykit_backend/internals/features/assessments/feedbacks/model"
	poolModel "academykit_backend/internals/features/assessments/question_pools/model"
	setModel "academykit_backend/internals/features/assessments/question_sets/model"
	certificateModel "academykit_backend/internals/features/certificates/course_certificates/model"
	externalModel "academykit_backend/internals/features/certificates/external_certificates/model"
	courseModel "academykit_backend/internals/features/courses/courses/model"
	lessonModel "academykit_backend/internals/features/courses/lessons/model"
	levelModel "academykit_backend/internals/features/courses/levels/model"
	sectionModel "academykit_backend/internals/features/courses/sections/model"
	tagModel "academykit_backend/internals/features/courses/tags/model"
	meetingModel "academykit_backend/internals/features/meetings/meetings/model"
	zoomModel "academykit_backend/internals/features/meetings/zoom/model"
	mailModel "academykit_backend/internals/features/notifications/mail/model"
	notificationModel "academykit_backend/internals/features/notifications/notifications/model"
	logModel "academykit_backend/internals/features/system/logs/model"
	settingModel "academykit_backend/internals/features/system/settings/model"
	authModel "academykit_backend/internals/features/users/auth/model"
	departmentModel "academykit_backend/internals/features/users/departments/model"
	groupModel "academykit_backend/internals/features/users/groups/model"
	userModel "academykit_backend/internals/features/users/users/model"
)

// Models lists every table in creation order.
func Models() []any {
	return []any{
		&departmentModel.DepartmentModel{},
		&userModel.UserModel{},
		&authModel.RefreshToken{},
		&authModel.TokenBlacklist{},
		&groupModel.GroupModel{},
		&groupModel.GroupMemberModel{},

		&levelModel.LevelModel{},
		&tagModel.TagModel{},
		&courseModel.CourseModel{},
		&courseModel.CourseTagModel{},
		&courseModel.CourseTeacherModel{},
		&courseModel.CourseEnrollmentModel{},
		&courseModel.CourseStatusLogModel{},
		&sectionModel.SectionModel{},
		&lessonModel.LessonModel{},
		&lessonModel.WatchHistoryModel{},

		&poolModel.QuestionPoolModel{},
		&poolModel.QuestionPoolTeacherModel{},
		&poolModel.QuestionModel{},
		&poolModel.QuestionOptionModel{},
		&poolModel.QuestionPoolQuestionModel{},
		&setModel.QuestionSetModel{},
		&setModel.QuestionSetQuestionModel{},
		&setModel.QuestionSetSubmissionModel{},
		&setModel.QuestionSetSubmissionAnswerModel{},
		&setModel.QuestionSetResultModel{},

		&assessmentModel.AssessmentModel{},
		&assessmentModel.AssessmentQuestionModel{},
		&assessmentModel.AssessmentOptionModel{},
		&assessmentModel.EligibilityModel{},
		&assessmentModel.AssessmentSubmissionModel{},
		&assessmentModel.AssessmentResultModel{},

		&assignmentModel.AssignmentModel{},
		&assignmentModel.AssignmentOptionModel{},
		&assignmentModel.AssignmentSubmissionModel{},
		&assignmentModel.AssignmentReviewModel{},
		&feedbackModel.FeedbackModel{},
		&feedbackModel.FeedbackOptionModel{},
		&feedbackModel.FeedbackSubmissionModel{},

		&zoomModel.ZoomSettingModel{},
		&zoomModel.ZoomLicenseModel{},
		&meetingModel.MeetingModel{},
		&meetingModel.MeetingReportModel{},

		&certificateModel.CourseCertificateModel{},
		&externalModel.ExternalCertificateModel{},
		&mailModel.MailNotificationModel{},
		&notificationModel.NotificationModel{},
		&settingModel.GeneralSettingModel{},
		&logModel.LogModel{},
	}
}

// ForeignKey is one constraint AutoMigrate cannot infer from plain id columns.
type ForeignKey struct {
	Table, Column, RefTable, OnDelete string
}

func (fk ForeignKey) Name() string { return fmt.Sprintf("fk_%s_%s", fk.Table, fk.Column) }

func (fk ForeignKey) SQL() string {
	return fmt.Sprintf(`DO $$ BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%[1]s') THEN
		ALTER TABLE %[2]s ADD CONSTRAINT %[1]s FOREIGN KEY (%[3]s) REFERENCES %[4]s(id) ON DELETE %[5]s;
	END IF;
END $$;`, fk.Name(), fk.Table, fk.Column, fk.RefTable, fk.OnDelete)
}

const (
	cascade  = "CASCADE"
	setNull  = "SET NULL"
	noAction = "NO ACTION"
)

var ForeignKeys = []ForeignKey{
	{"users", "department_id", "departments", setNull},
	{"refresh_tokens", "user_id", "users", cascade},
	{"group_members", "user_id", "users", cascade},

	{"courses", "level_id", "levels", setNull},
	{"courses", "group_id", "groups", setNull},
	{"course_tags", "tag_id", "tags", cascade},
	{"course_teachers", "user_id", "users", cascade},
	{"course_enrollments", "course_id", "courses", cascade},
	{"course_enrollments", "user_id", "users", cascade},
	{"course_enrollments", "current_lesson_id", "lessons", setNull},
	{"course_status_logs", "course_id", "courses", cascade},
	{"sections", "course_id", "courses", cascade},
	{"lessons", "course_id", "courses", cascade},
	{"lessons", "section_id", "sections", cascade},
	{"lessons", "question_set_id", "question_sets", setNull},
	{"lessons", "meeting_id", "meetings", setNull},
	{"watch_histories", "course_id", "courses", cascade},
	{"watch_histories", "lesson_id", "lessons", cascade},
	{"watch_histories", "user_id", "users", cascade},

	{"question_pool_teachers", "user_id", "users", cascade},
	{"question_pool_questions", "question_id", "questions", cascade},
	{"question_set_questions", "question_set_id", "question_sets", cascade},
	{"question_set_questions", "question_id", "questions", noAction},
	{"question_set_questions", "question_pool_question_id", "question_pool_questions", noAction},
	{"question_set_submissions", "question_set_id", "question_sets", cascade},
	{"question_set_submissions", "user_id", "users", cascade},
	{"question_set_submission_answers", "question_set_submission_id", "question_set_submissions", cascade},
	{"question_set_submission_answers", "question_set_question_id", "question_set_questions", cascade},
	{"question_set_results", "question_set_id", "question_sets", cascade},
	{"question_set_results", "question_set_submission_id", "question_set_submissions", cascade},
	{"question_set_results", "user_id", "users", cascade},

	{"eligibility_creations", "department_id", "departments", cascade},
	{"eligibility_creations", "group_id", "groups", cascade},
	{"eligibility_creations", "training_id", "courses", cascade},
	{"assessment_submissions", "assessment_id", "assessments", cascade},
	{"assessment_submissions", "user_id", "users", cascade},
	{"assessment_results", "assessment_id", "assessments", cascade},
	{"assessment_results", "assessment_submission_id", "assessment_submissions", cascade},
	{"assessment_results", "user_id", "users", cascade},

	{"assignments", "lesson_id", "lessons", cascade},
	{"assignment_submissions", "assignment_id", "assignments", cascade},
	{"assignment_submissions", "user_id", "users", cascade},
	{"assignment_reviews", "lesson_id", "lessons", cascade},
	{"assignment_reviews", "user_id", "users", cascade},
	{"assignment_reviews", "reviewer_id", "users", noAction},
	{"feedbacks", "lesson_id", "lessons", cascade},
	{"feedback_submissions", "feedback_id", "feedbacks", cascade},
	{"feedback_submissions", "user_id", "users", cascade},

	{"meetings", "zoom_license_id", "zoom_licenses", noAction},
	{"meetings", "lesson_id", "lessons", setNull},
	{"meeting_reports", "meeting_id", "meetings", cascade},
	{"meeting_reports", "user_id", "users", setNull},

	{"course_certificates", "course_id", "courses", cascade},
	{"external_certificates", "user_id", "users", cascade},
	{"notifications", "user_id", "users", cascade},
}

// Migrate creates or alters every table, then adds the missing foreign keys.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		log.Warn().Err(err).Msg("[MIGRATE] pgcrypto extension")
	}
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	for _, fk := range ForeignKeys {
		if err := db.WithContext(ctx).Exec(fk.SQL()).Error; err != nil {
			return errors.Wrapf(err, "add %s", fk.Name())
		}
	}
	log.Info().Int("tables", len(Models())).Int("foreign_keys", len(ForeignKeys)).Msg("[MIGRATE] done")
	return nil
}
