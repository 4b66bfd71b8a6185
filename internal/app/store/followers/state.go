// internal/app/store/followers/state.go
package followerstore

import (
	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
)

// InitialState derives the state a brand-new follow request lands in
// from the target organization's configuration:
//
//   - public organization            → FOLLOWER immediately
//   - private, no access code       → PENDING (admin must decide)
//   - private, access code required → error; the caller must go through
//     SubmitAccessCode instead of a bare follow request
func InitialState(org models.Organization) (models.FollowState, error) {
	if !org.IsPrivate() {
		return models.StateFollower, nil
	}
	if org.CodeGated() {
		return "", apperr.New(apperr.Validation, "organization requires an access code to join")
	}
	return models.StatePending, nil
}

// DecisionState maps an admin's approve/reject choice on a pending
// request to the resulting state.
func DecisionState(approve bool) models.FollowState {
	if approve {
		return models.StateFollower
	}
	return models.StateRejected
}

// Rank orders states for the admin listing view: pending requests
// first, then admins, then plain followers. Other states sort last and
// are filtered out before ranking matters.
func Rank(s models.FollowState) int {
	switch s {
	case models.StatePending:
		return 0
	case models.StateAdmin:
		return 1
	case models.StateFollower:
		return 2
	default:
		return 3
	}
}

// Rejoinable reports whether a user holding this state may start a new
// follow request (re-request after rejection or unfollow).
func Rejoinable(s models.FollowState) bool {
	return s == models.StateRejected || s == models.StateNotFollower
}
