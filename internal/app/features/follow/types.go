// internal/app/features/follow/types.go
package follow

import (
	"time"

	"github.com/adityachugh/Announcements-Web/internal/domain/models"
)

type relationshipResponse struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	UserName       string     `json:"user_name,omitempty"`
	OrganizationID string     `json:"organization_id"`
	State          string     `json:"state"`
	FollowDate     time.Time  `json:"follow_date"`
	ApprovalDate   *time.Time `json:"approval_date,omitempty"`
}

func toRelationshipResponse(rel models.FollowerRelationship) relationshipResponse {
	return relationshipResponse{
		ID:             rel.ID.Hex(),
		UserID:         rel.UserID.Hex(),
		OrganizationID: rel.OrganizationID.Hex(),
		State:          string(rel.State),
		FollowDate:     rel.FollowDate,
		ApprovalDate:   rel.ApprovalDate,
	}
}

type accessCodeRequest struct {
	Code string `json:"code"`
}

type decideRequest struct {
	Approve bool `json:"approve"`
}

type adminRequest struct {
	UserID string `json:"user_id"`
}
