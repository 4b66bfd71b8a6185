package poststore

import (
	"strings"
	"testing"
	"time"

	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"ok", "Meeting", false},
		{"exactly 30", strings.Repeat("a", 30), false},
		{"31 chars", strings.Repeat("a", 31), true},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"trimmed to 30", "  " + strings.Repeat("a", 30) + "  ", false},
		{"30 runes multibyte", strings.Repeat("é", 30), false},
		{"31 runes multibyte", strings.Repeat("é", 31), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTitle(tt.title)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTitle(%q) error = %v, wantErr %v", tt.title, err, tt.wantErr)
			}
			if err != nil && !apperr.IsKind(err, apperr.Validation) {
				t.Errorf("error kind = %v, want Validation", apperr.KindOf(err))
			}
		})
	}
}

func TestValidateWindow(t *testing.T) {
	day := 24 * time.Hour
	now := time.Now()

	if err := ValidateWindow(now, now); err != nil {
		t.Errorf("start == end must be valid: %v", err)
	}
	if err := ValidateWindow(now, now.Add(day)); err != nil {
		t.Errorf("start < end must be valid: %v", err)
	}
	if err := ValidateWindow(now.Add(day), now); err == nil {
		t.Error("start > end must fail")
	}
	if err := ValidateWindow(time.Time{}, now); err == nil {
		t.Error("zero start must fail")
	}
}

func TestApprovalRequired(t *testing.T) {
	tests := []struct {
		parentReq    bool
		notifyParent bool
		want         bool
	}{
		{false, false, false},
		{true, false, true},
		{false, true, true},
		{true, true, true},
	}
	for _, tt := range tests {
		org := models.Organization{ParentApprovalRequired: tt.parentReq}
		if got := ApprovalRequired(org, tt.notifyParent); got != tt.want {
			t.Errorf("ApprovalRequired(parentReq=%v, notifyParent=%v) = %v, want %v",
				tt.parentReq, tt.notifyParent, got, tt.want)
		}
	}
}

func TestInitialStatus(t *testing.T) {
	if got := InitialStatus(true); got != models.PostPending {
		t.Errorf("approval required → %q, want pending", got)
	}
	if got := InitialStatus(false); got != models.PostApproved {
		t.Errorf("no approval required → %q, want approved", got)
	}
}

func TestPostVisibleAt(t *testing.T) {
	now := time.Now()
	base := models.Post{
		Status:        models.PostApproved,
		PostStartDate: now.Add(-time.Hour),
		PostEndDate:   now.Add(time.Hour),
	}

	if !base.VisibleAt(now) {
		t.Error("approved in-window post must be visible")
	}

	before := base
	before.PostStartDate = now.Add(time.Minute)
	before.PostEndDate = now.Add(time.Hour)
	if before.VisibleAt(now) {
		t.Error("post before its window must be hidden")
	}

	after := base
	after.PostStartDate = now.Add(-2 * time.Hour)
	after.PostEndDate = now.Add(-time.Hour)
	if after.VisibleAt(now) {
		t.Error("post past its window must be hidden")
	}

	pending := base
	pending.Status = models.PostPending
	if pending.VisibleAt(now) {
		t.Error("pending post must be hidden")
	}

	rejected := base
	rejected.Status = models.PostRejected
	if rejected.VisibleAt(now) {
		t.Error("rejected post must be hidden")
	}

	deleted := base
	deleted.IsDeleted = true
	if deleted.VisibleAt(now) {
		t.Error("deleted post must be hidden")
	}

	// Window bounds are inclusive.
	if !base.VisibleAt(base.PostStartDate) || !base.VisibleAt(base.PostEndDate) {
		t.Error("window bounds are inclusive")
	}
}
