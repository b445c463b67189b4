package screening

import (
	"io"
	"time"

	"github.com/bryanwahyu/devscreen/internal/domain/questionnaire"
	"github.com/bryanwahyu/devscreen/internal/domain/risk"
)

// ID tipe untuk Screening
type ID string

// Status enum
type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusReviewed    Status = "reviewed"
	StatusActioned    Status = "actioned"
)

var statusOrder = map[Status]int{
	StatusSubmitted:   0,
	StatusUnderReview: 1,
	StatusReviewed:    2,
	StatusActioned:    3,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusOrder[s]
	return ok
}

// CanMoveTo is forward-only; reviewed may be saved again to amend notes.
func (s Status) CanMoveTo(next Status) bool {
	from, ok := statusOrder[s]
	if !ok {
		return false
	}
	to, ok := statusOrder[next]
	if !ok {
		return false
	}
	if s == StatusReviewed && next == StatusReviewed {
		return true
	}
	return to > from
}

// VideoCategory enum
type VideoCategory string

const (
	CategorySocial VideoCategory = "social"
	CategoryPlay   VideoCategory = "play"
	CategoryFree   VideoCategory = "free"
)

// Valid reports whether c is one of the recording prompts.
func (c VideoCategory) Valid() bool {
	switch c {
	case CategorySocial, CategoryPlay, CategoryFree:
		return true
	}
	return false
}

// VideoReference points at a recording; the bytes live elsewhere.
type VideoReference struct {
	ID         string        `json:"id"`
	Category   VideoCategory `json:"category"`
	URL        string        `json:"url"`
	UploadedAt time.Time     `json:"uploadedAt"`
}

// Content is the resolved media of one video.
type Content struct {
	Body     io.ReadCloser
	MIMEType string
	Size     int64
}

// ReviewAction enum
type ReviewAction string

const (
	ActionReferral   ReviewAction = "referral"
	ActionMonitoring ReviewAction = "monitoring"
	ActionRoutine    ReviewAction = "routine"
)

// Valid reports whether a is a known clinician action.
func (a ReviewAction) Valid() bool {
	switch a {
	case ActionReferral, ActionMonitoring, ActionRoutine:
		return true
	}
	return false
}

// Review value object
type Review struct {
	ReviewerID string       `json:"reviewerId"`
	Notes      string       `json:"notes"`
	Action     ReviewAction `json:"action,omitempty"`
	ReviewedAt time.Time    `json:"reviewedAt"`
}

// Aggregate Root: Screening
type Screening struct {
	ID                 ID                       `json:"id"`
	ChildID            string                   `json:"childId"`
	ParentID           string                   `json:"parentId"`
	Status             Status                   `json:"status"`
	ChildDOB           time.Time                `json:"childDob"`
	AgeMonths          int                      `json:"ageMonths"`
	Bracket            questionnaire.Bracket    `json:"ageGroup"`
	Responses          []questionnaire.Response `json:"responses"`
	QuestionnaireScore int                      `json:"questionnaireScore"`
	CriticalItemsCount int                      `json:"criticalItemsCount"`
	Videos             []VideoReference         `json:"videos"`
	Assessment         risk.Assessment          `json:"assessment"`
	Review             *Review                  `json:"review,omitempty"`
	CreatedAt          time.Time                `json:"createdAt"`
	SubmittedAt        time.Time                `json:"submittedAt"`
	UpdatedAt          time.Time                `json:"updatedAt"`
}

// Page is one slice of a listing.
type Page struct {
	Data       []*Screening `json:"data"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	Total      int64        `json:"totalItems"`
	TotalPages int          `json:"totalPages"`
}
