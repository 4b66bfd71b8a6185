// internal/app/features/posts/types.go
package posts

import (
	"time"

	"github.com/adityachugh/Announcements-Web/internal/domain/models"
)

type postResponse struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	ImageURL       string     `json:"image_url,omitempty"`
	Priority       int        `json:"priority"`
	StartDate      time.Time  `json:"post_start_date"`
	EndDate        time.Time  `json:"post_end_date"`
	Status         string     `json:"status"`
	NotifyParent   bool       `json:"notify_parent"`
	Rejection      string     `json:"rejection_reason,omitempty"`
	ModerationDate *time.Time `json:"moderation_date,omitempty"`
	CommentsCount  int64      `json:"comments_count"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toPostResponse(p models.Post) postResponse {
	return postResponse{
		ID:             p.ID.Hex(),
		OrganizationID: p.OrganizationID.Hex(),
		Title:          p.Title,
		Body:           p.Body,
		ImageURL:       p.ImageURL,
		Priority:       p.Priority,
		StartDate:      p.PostStartDate,
		EndDate:        p.PostEndDate,
		Status:         string(p.Status),
		NotifyParent:   p.NotifyParent,
		Rejection:      p.RejectionReason,
		ModerationDate: p.ModerationDate,
		CommentsCount:  p.CommentsCount,
		CreatedAt:      p.CreatedAt,
	}
}

func toPostResponses(posts []models.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

// submitRequest is the body for POST /organizations/{id}/posts.
type submitRequest struct {
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	ImageURL     string    `json:"image_url,omitempty"`
	Priority     int       `json:"priority,omitempty"`
	StartDate    time.Time `json:"post_start_date"`
	EndDate      time.Time `json:"post_end_date"`
	NotifyParent bool      `json:"notify_parent,omitempty"`
}

// decideRequest is the body for POST /posts/{id}/decide.
type decideRequest struct {
	Approve  bool   `json:"approve"`
	Reason   string `json:"reason,omitempty"`
	Priority *int   `json:"priority,omitempty"`
}
