package domain_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homelink/marketplace-backend/internal/core/domain"
	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
)

func TestNewProject(t *testing.T) {
	homeownerID := uuid.New()

	tests := []struct {
		name        string
		params      domain.ProjectParams
		expectError error
	}{
		{
			name: "valid project",
			params: domain.ProjectParams{
				HomeownerID: homeownerID,
				Title:       "Kitchen remodel",
				Description: "Full remodel of a 12sqm kitchen",
				Category:    "carpentry",
			},
		},
		{
			name: "missing title",
			params: domain.ProjectParams{
				HomeownerID: homeownerID,
				Title:       "",
			},
			expectError: apperrors.ErrTitleRequired,
		},
		{
			name: "title too long",
			params: domain.ProjectParams{
				HomeownerID: homeownerID,
				Title:       strings.Repeat("a", domain.MaxTitleLength+1),
			},
			expectError: apperrors.ErrTitleTooLong,
		},
		{
			name: "description too long",
			params: domain.ProjectParams{
				HomeownerID: homeownerID,
				Title:       "Kitchen remodel",
				Description: strings.Repeat("a", domain.MaxDescriptionLength+1),
			},
			expectError: apperrors.ErrDescriptionTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project, err := domain.NewProject(tt.params)
			if tt.expectError != nil {
				assert.Nil(t, project)
				assert.ErrorIs(t, err, tt.expectError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, domain.StatusOpen, project.Status)
			assert.Equal(t, homeownerID, project.HomeownerID)
			assert.Nil(t, project.ProfessionalID)
			assert.False(t, project.CreatedAt.IsZero())
		})
	}
}

func TestProject_UpdateStatus(t *testing.T) {
	tests := []struct {
		name        string
		from        domain.ProjectStatus
		to          domain.ProjectStatus
		expectError bool
	}{
		{"assigned to in progress", domain.StatusAssigned, domain.StatusInProgress, false},
		{"in progress to completed", domain.StatusInProgress, domain.StatusCompleted, false},
		{"open to assigned is hire-only", domain.StatusOpen, domain.StatusAssigned, true},
		{"open to completed", domain.StatusOpen, domain.StatusCompleted, true},
		{"assigned to completed skips a step", domain.StatusAssigned, domain.StatusCompleted, true},
		{"completed is terminal", domain.StatusCompleted, domain.StatusInProgress, true},
		{"backwards is invalid", domain.StatusInProgress, domain.StatusAssigned, true},
		{"unknown status", domain.ProjectStatus("CANCELLED"), domain.StatusCompleted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := &domain.Project{Status: tt.from}

			err := project.UpdateStatus(tt.to)
			if tt.expectError {
				assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
				assert.Equal(t, tt.from, project.Status)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.to, project.Status)
		})
	}

	t.Run("completion stamps CompletedAt", func(t *testing.T) {
		project := &domain.Project{Status: domain.StatusInProgress}

		require.NoError(t, project.UpdateStatus(domain.StatusCompleted))
		require.NotNil(t, project.CompletedAt)
	})
}

func TestProject_Hire(t *testing.T) {
	professionalID := uuid.New()

	t.Run("hire assigns an open project", func(t *testing.T) {
		project := &domain.Project{Status: domain.StatusOpen}

		require.NoError(t, project.Hire(professionalID))
		assert.Equal(t, domain.StatusAssigned, project.Status)
		require.NotNil(t, project.ProfessionalID)
		assert.Equal(t, professionalID, *project.ProfessionalID)
	})

	t.Run("cannot hire on a non-open project", func(t *testing.T) {
		project := &domain.Project{Status: domain.StatusAssigned}

		err := project.Hire(professionalID)
		assert.ErrorIs(t, err, apperrors.ErrProjectNotOpen)
	})
}

func TestProject_IsParticipant(t *testing.T) {
	homeownerID := uuid.New()
	professionalID := uuid.New()

	pro := professionalID
	project := &domain.Project{
		HomeownerID:    homeownerID,
		ProfessionalID: &pro,
	}

	assert.True(t, project.IsParticipant(homeownerID))
	assert.True(t, project.IsParticipant(professionalID))
	assert.False(t, project.IsParticipant(uuid.New()))

	unassigned := &domain.Project{HomeownerID: homeownerID}
	assert.True(t, unassigned.IsParticipant(homeownerID))
	assert.False(t, unassigned.IsParticipant(professionalID))
}
