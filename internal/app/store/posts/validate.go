// internal/app/store/posts/validate.go
package poststore

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
)

// ValidateTitle enforces the title contract: non-empty after trimming,
// at most MaxPostTitleLen runes.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return apperr.New(apperr.Validation, "title is required")
	}
	if utf8.RuneCountInString(title) > models.MaxPostTitleLen {
		return apperr.Newf(apperr.Validation, "title exceeds %d characters", models.MaxPostTitleLen)
	}
	return nil
}

// ValidateWindow enforces start ≤ end for the display window.
func ValidateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperr.New(apperr.Validation, "post start and end dates are required")
	}
	if start.After(end) {
		return apperr.New(apperr.Validation, "post start date is after end date")
	}
	return nil
}

// ApprovalRequired computes whether a new post must pass moderation:
// the owning organization demands parent approval for all its content,
// or the author explicitly asked the parent organization to co-approve.
func ApprovalRequired(org models.Organization, notifyParent bool) bool {
	return org.ParentApprovalRequired || notifyParent
}

// InitialStatus derives the creation status from the approval
// requirement: posts that need no sign-off go straight to APPROVED.
func InitialStatus(approvalRequired bool) models.PostStatus {
	if approvalRequired {
		return models.PostPending
	}
	return models.PostApproved
}
