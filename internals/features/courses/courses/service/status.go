package service

import (
	"academykit_backend/internals/constants"
	helper "academykit_backend/internals/helpers"
)

// CheckTransition validates a course status change.
//
//	teacher: Draft|Rejected -> Review, Published (with pending update) -> Review
//	admin:   Review -> Published|Rejected
func CheckTransition(from, to string, isUpdate bool, a Access) error {
	switch to {
	case constants.StatusReview:
		if !a.CanManage() {
			return helper.ErrForbidden("only course teachers can request a review")
		}
		if from == constants.StatusDraft || from == constants.StatusRejected {
			return nil
		}
		if from == constants.StatusPublished && isUpdate {
			return nil
		}
	case constants.StatusPublished, constants.StatusRejected:
		if !a.Admin {
			return helper.ErrForbidden("only admins can publish or reject a course")
		}
		if from == constants.StatusReview {
			return nil
		}
	default:
		return helper.ErrFieldValidation("status", "status must be Review, Published or Rejected")
	}
	return helper.ErrConflict("course cannot move from " + from + " to " + to)
}
