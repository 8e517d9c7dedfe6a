package model

import (
	"time"

	"github.com/treeai-operations/alex-cli/internal/afiss"
	"github.com/treeai-operations/alex-cli/internal/pricing"
	"github.com/treeai-operations/alex-cli/internal/treescore"
)

// AssessmentStatus represents the current state of a saved assessment.
type AssessmentStatus string

const (
	AssessmentStatusDraft    AssessmentStatus = "draft"
	AssessmentStatusQuoted   AssessmentStatus = "quoted"
	AssessmentStatusAccepted AssessmentStatus = "accepted"
	AssessmentStatusDeclined AssessmentStatus = "declined"
)

// ProjectAssessment is a persisted assessment of a single job: the site risk
// evaluation, the work measurement, and the priced loadout for performing it.
// TreeScore, Risk, Pricing, and Economics are all optional; an assessment may
// be saved at any stage of completion.
type ProjectAssessment struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	ProjectType string                    `json:"project_type"`
	State       string                    `json:"state"`
	Status      AssessmentStatus          `json:"status"`
	TreeScore   *treescore.Result         `json:"tree_score,omitempty"`
	Hours       *treescore.HoursEstimate  `json:"hours,omitempty"`
	Risk        *afiss.Assessment         `json:"risk,omitempty"`
	Pricing     *pricing.LoadoutPricing   `json:"pricing,omitempty"`
	Economics   *pricing.ProjectEconomics `json:"economics,omitempty"`
	Notes       string                    `json:"notes,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// Filter narrows assessment listings.
type Filter struct {
	ProjectType string
	State       string
	Status      AssessmentStatus
	Limit       int
	Offset      int
}
