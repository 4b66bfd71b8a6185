// internal/app/features/comments/handler.go
package comments

import (
	"context"
	"net/http"
	"time"

	"github.com/adityachugh/Announcements-Web/internal/app/features/shared"
	"github.com/adityachugh/Announcements-Web/internal/app/policy/orgpolicy"
	"github.com/adityachugh/Announcements-Web/internal/app/store/comments"
	"github.com/adityachugh/Announcements-Web/internal/app/store/organizations"
	"github.com/adityachugh/Announcements-Web/internal/app/store/posts"
	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/gates"
	"github.com/adityachugh/Announcements-Web/internal/app/system/limits"
	"github.com/adityachugh/Announcements-Web/internal/app/system/paging"
	"github.com/adityachugh/Announcements-Web/internal/app/system/timeouts"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for post comments.
type Handler struct {
	Comments *commentstore.Store
	Posts    *poststore.Store
	Orgs     *organizationstore.Store
	Policy   *orgpolicy.Policy
	Log      *zap.Logger
}

func NewHandler(comments *commentstore.Store, posts *poststore.Store, orgs *organizationstore.Store, policy *orgpolicy.Policy, logger *zap.Logger) *Handler {
	return &Handler{
		Comments: comments,
		Posts:    posts,
		Orgs:     orgs,
		Policy:   policy,
		Log:      logger,
	}
}

type commentResponse struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	Date       time.Time `json:"comment_date"`
}

func toCommentResponse(c models.Comment) commentResponse {
	return commentResponse{
		ID:         c.ID.Hex(),
		PostID:     c.PostID.Hex(),
		AuthorID:   c.AuthorID.Hex(),
		AuthorName: c.AuthorName,
		Body:       c.Body,
		Date:       c.CommentDate,
	}
}

type createRequest struct {
	Body string `json:"body"`
}

// checkPostAccess verifies the caller may see the post; commenting
// rights are exactly viewing rights. Inaccessible posts read as absent.
func (h *Handler) checkPostAccess(ctx context.Context, r *http.Request, postID primitive.ObjectID) error {
	post, err := h.Posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	org, err := h.Orgs.GetByID(ctx, post.OrganizationID)
	if err != nil {
		return err
	}
	canView, err := h.Policy.CanViewPost(ctx, r, post, org)
	if err != nil {
		return err
	}
	if !canView {
		return apperr.New(apperr.NotFound, "post not found")
	}
	return nil
}

// HandleCreate handles POST /posts/{id}/comments.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	postID, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	res := gates.RequireAuth(w, r, h.Log)
	if !res.OK {
		return
	}

	var in createRequest
	if err := shared.DecodeLimited(r, &in, limits.MaxPostBodySize); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.checkPostAccess(ctx, r, postID); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	cmt, err := h.Comments.Create(ctx, postID, res.UserID, res.Name, in.Body)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusCreated, toCommentResponse(cmt))
}

// ServeList handles GET /posts/{id}/comments, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	postID, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	res := gates.RequireAuth(w, r, h.Log)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.checkPostAccess(ctx, r, postID); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	comments, err := h.Comments.ListForPost(ctx, postID, paging.ParseRange(r))
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	shared.JSON(w, http.StatusOK, map[string]any{"comments": out})
}

// HandleDelete handles POST /comments/{id}/delete (author only).
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	commentID, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	res := gates.RequireAuth(w, r, h.Log)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Comments.SoftDelete(ctx, commentID, res.UserID); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
