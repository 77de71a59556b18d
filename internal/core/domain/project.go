package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
)

// Project length limits
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 5000
)

// ProjectStatus represents the lifecycle states of a project posting.
type ProjectStatus string

const (
	StatusOpen       ProjectStatus = "OPEN"
	StatusAssigned   ProjectStatus = "ASSIGNED"
	StatusInProgress ProjectStatus = "IN_PROGRESS"
	StatusCompleted  ProjectStatus = "COMPLETED"
)

// Project is a homeowner's posting that professionals bid on.
type Project struct {
	ID             int64
	HomeownerID    uuid.UUID
	Title          string
	Description    string
	Category       string
	Budget         *float64
	Status         ProjectStatus
	ProfessionalID *uuid.UUID // set when a bid is accepted
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	CompletedAt    *time.Time
}

// ProjectParams holds the input for creating a project.
type ProjectParams struct {
	HomeownerID uuid.UUID
	Title       string
	Description string
	Category    string
	Budget      *float64
}

// NewProject is a factory function to create a valid new project posting.
func NewProject(params ProjectParams) (*Project, error) {
	if params.Title == "" {
		return nil, apperrors.ErrTitleRequired
	}
	if len(params.Title) > MaxTitleLength {
		return nil, apperrors.ErrTitleTooLong
	}
	if len(params.Description) > MaxDescriptionLength {
		return nil, apperrors.ErrDescriptionTooLong
	}

	return &Project{
		HomeownerID: params.HomeownerID,
		Title:       params.Title,
		Description: params.Description,
		Category:    params.Category,
		Budget:      params.Budget,
		Status:      StatusOpen,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// validTransitions defines the allowed status changes. OPEN -> ASSIGNED only
// happens through Hire, never through UpdateStatus.
var validTransitions = map[ProjectStatus][]ProjectStatus{
	StatusOpen:       {},
	StatusAssigned:   {StatusInProgress},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
}

// UpdateStatus advances the project lifecycle, enforcing the transition rules.
func (p *Project) UpdateStatus(newStatus ProjectStatus) error {
	allowed, ok := validTransitions[p.Status]
	if !ok {
		return apperrors.ErrInvalidStatusTransition
	}

	for _, s := range allowed {
		if s == newStatus {
			p.Status = newStatus
			now := time.Now().UTC()
			p.UpdatedAt = &now
			if newStatus == StatusCompleted {
				p.CompletedAt = &now
			}
			return nil
		}
	}

	return apperrors.ErrInvalidStatusTransition
}

// Hire assigns the professional of the accepted bid to the project.
func (p *Project) Hire(professionalID uuid.UUID) error {
	if p.Status != StatusOpen {
		return apperrors.ErrProjectNotOpen
	}
	p.ProfessionalID = &professionalID
	p.Status = StatusAssigned
	now := time.Now().UTC()
	p.UpdatedAt = &now
	return nil
}

// IsOwnedBy reports whether the given user posted the project.
func (p *Project) IsOwnedBy(userID uuid.UUID) bool {
	return p.HomeownerID == userID
}

// IsAssignedTo reports whether the given professional is hired on the project.
func (p *Project) IsAssignedTo(userID uuid.UUID) bool {
	return p.ProfessionalID != nil && *p.ProfessionalID == userID
}

// IsParticipant reports whether the user is the homeowner or the hired
// professional. Chat access is limited to participants.
func (p *Project) IsParticipant(userID uuid.UUID) bool {
	return p.IsOwnedBy(userID) || p.IsAssignedTo(userID)
}
