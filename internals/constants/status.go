package constants

// Course and assessment workflow status.
const (
	StatusDraft     = "Draft"
	StatusReview    = "Review"
	StatusPublished = "Published"
	StatusRejected  = "Rejected"
	StatusApproved  = "Approved"
)

// User status.
const (
	UserActive   = "Active"
	UserInActive = "InActive"
	UserPending  = "Pending"
)

// Enrollment status.
const (
	EnrollmentEnrolled  = "Enrolled"
	EnrollmentCompleted = "Completed"
)

// Lesson types.
const (
	LessonVideo         = "Video"
	LessonDocument      = "Document"
	LessonExam          = "Exam"
	LessonAssignment    = "Assignment"
	LessonLiveClass     = "LiveClass"
	LessonFeedback      = "Feedback"
	LessonRecordedVideo = "RecordedVideo"
	LessonPhysical      = "Physical"
)

// Question and answer types.
const (
	QuestionSingleChoice   = "SingleChoice"
	QuestionMultipleChoice = "MultipleChoice"
	QuestionSubjective     = "Subjective"
	QuestionRating         = "Rating"
)

// Teacher roles on a course or question pool.
const (
	TeacherAuthor   = "Author"
	TeacherLecturer = "Lecturer"
	PoolCreator     = "Creator"
	PoolAuthor      = "Author"
)

// Mail template types.
const (
	MailUserCreate         = "UserCreate"
	MailForgotPassword     = "ForgotPassword"
	MailCertificateIssued  = "CertificateIssued"
	MailCourseEnrollment   = "CourseEnrollment"
	MailCourseReview       = "CourseReview"
	MailCourseStatusChange = "CourseStatusChange"
	MailGroupMemberAdded   = "GroupMemberAdded"
	MailTestMessage        = "TestMessage"
)

var (
	CourseStatuses   = []string{StatusDraft, StatusReview, StatusPublished, StatusRejected}
	UserStatuses     = []string{UserActive, UserInActive, UserPending}
	LessonTypes      = []string{LessonVideo, LessonDocument, LessonExam, LessonAssignment, LessonLiveClass, LessonFeedback, LessonRecordedVideo, LessonPhysical}
	ChoiceQuestions  = []string{QuestionSingleChoice, QuestionMultipleChoice}
	MailTypes        = []string{MailUserCreate, MailForgotPassword, MailCertificateIssued, MailCourseEnrollment, MailCourseReview, MailCourseStatusChange, MailGroupMemberAdded, MailTestMessage}
	ExternalStatuses = []string{StatusDraft, StatusReview, StatusApproved, StatusRejected}
)

// Contains is a small membership check for the enum slices above.
func Contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
