// internal/app/features/organizations/types.go
package organizations

import (
	"time"

	"github.com/adityachugh/Announcements-Web/internal/domain/models"
)

// orgResponse is the public shape of an organization. The access code
// is deliberately absent: it is shared out of band by admins.
type orgResponse struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	Handle                 string    `json:"handle"`
	ParentID               string    `json:"parent_id,omitempty"`
	Visibility             string    `json:"visibility"`
	CodeGated              bool      `json:"code_gated"`
	ParentApprovalRequired bool      `json:"parent_approval_required"`
	Description            string    `json:"description,omitempty"`
	ProfilePhotoURL        string    `json:"profile_photo_url,omitempty"`
	CoverPhotoURL          string    `json:"cover_photo_url,omitempty"`
	ChildCount             int64     `json:"child_count"`
	PostCount              int64     `json:"post_count"`
	FollowerCount          int64     `json:"follower_count"`
	CreatedAt              time.Time `json:"created_at"`
}

// adminOrgResponse adds the fields only admins should see.
type adminOrgResponse struct {
	orgResponse
	AccessCode string `json:"access_code,omitempty"`
}

func toOrgResponse(org models.Organization) orgResponse {
	resp := orgResponse{
		ID:                     org.ID.Hex(),
		Name:                   org.Name,
		Handle:                 org.Handle,
		Visibility:             string(org.Visibility),
		CodeGated:              org.CodeGated(),
		ParentApprovalRequired: org.ParentApprovalRequired,
		Description:            org.Description,
		ProfilePhotoURL:        org.ProfilePhotoURL,
		CoverPhotoURL:          org.CoverPhotoURL,
		ChildCount:             org.ChildCount,
		PostCount:              org.PostCount,
		FollowerCount:          org.FollowerCount,
		CreatedAt:              org.CreatedAt,
	}
	if org.ParentID != nil {
		resp.ParentID = org.ParentID.Hex()
	}
	return resp
}

func toAdminOrgResponse(org models.Organization) adminOrgResponse {
	return adminOrgResponse{
		orgResponse: toOrgResponse(org),
		AccessCode:  org.AccessCode,
	}
}

func toOrgResponses(orgs []models.Organization) []orgResponse {
	out := make([]orgResponse, 0, len(orgs))
	for _, org := range orgs {
		out = append(out, toOrgResponse(org))
	}
	return out
}

// createRequest is the body for POST /organizations.
type createRequest struct {
	Name                   string `json:"name"`
	Handle                 string `json:"handle"`
	ParentID               string `json:"parent_id,omitempty"`
	Visibility             string `json:"visibility"`
	AccessCode             string `json:"access_code,omitempty"`
	ParentApprovalRequired bool   `json:"parent_approval_required,omitempty"`
	Description            string `json:"description,omitempty"`
}

// editRequest is the body for POST /organizations/{id}/edit. Absent
// fields are left unchanged.
type editRequest struct {
	Name                   *string `json:"name,omitempty"`
	Description            *string `json:"description,omitempty"`
	Visibility             *string `json:"visibility,omitempty"`
	AccessCode             *string `json:"access_code,omitempty"`
	ParentApprovalRequired *bool   `json:"parent_approval_required,omitempty"`
}

// photoRequest carries an uploaded photo's URL.
type photoRequest struct {
	URL string `json:"url"`
}
