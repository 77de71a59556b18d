package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	mw "github.com/homelink/marketplace-backend/internal/adapters/primary/http/middleware"
	"github.com/homelink/marketplace-backend/internal/adapters/primary/validation"
	"github.com/homelink/marketplace-backend/internal/auth"
	"github.com/homelink/marketplace-backend/internal/core/domain"
	"github.com/homelink/marketplace-backend/internal/core/ports"
)

const maxProjectsPerPage = 100

// ProjectHandler handles HTTP requests for project postings
type ProjectHandler struct {
	projectService ports.ProjectService
	bidHandler     *BidHandler
	chatHandler    *ChatHandler
	reviewHandler  *ReviewHandler
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(
	projectService ports.ProjectService,
	bidHandler *BidHandler,
	chatHandler *ChatHandler,
	reviewHandler *ReviewHandler,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		bidHandler:     bidHandler,
		chatHandler:    chatHandler,
		reviewHandler:  reviewHandler,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "project"),
	}
}

// Router sets up a new chi Router for all project-related routes.
func (h *ProjectHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.HandleListProjects)
	r.Post("/", h.HandleCreateProject)

	// Routes for a specific project
	r.Route("/{projectID}", func(r chi.Router) {
		r.Get("/", h.HandleGetProject)
		r.Patch("/status", h.HandleUpdateProjectStatus)

		if h.bidHandler != nil {
			r.Mount("/bids", h.bidHandler.Router())
		}
		if h.chatHandler != nil {
			r.Mount("/messages", h.chatHandler.Router())
		}
		if h.reviewHandler != nil {
			r.Mount("/review", h.reviewHandler.Router())
		}
	})
	return r
}

// --- Request/Response DTOs ---

// CreateProjectRequest defines the expected JSON body for posting a project
type CreateProjectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Budget      *float64 `json:"budget"`
}

// Validate validates the create project request
func (r *CreateProjectRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("title", r.Title).
		MaxLength("title", r.Title, domain.MaxTitleLength)

	v.MaxLength("description", r.Description, domain.MaxDescriptionLength)

	v.Required("category", r.Category)

	if r.Budget != nil {
		v.Custom("budget", *r.Budget > 0, "Must be greater than zero")
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateProjectStatusRequest defines the expected JSON body for status updates
type UpdateProjectStatusRequest struct {
	Status string `json:"status"`
}

// Validate validates the update status request
func (r *UpdateProjectStatusRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("status", r.Status).
		OneOf("status", r.Status, []string{"IN_PROGRESS", "COMPLETED"})

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// ProjectDTO defines the JSON response for projects.
type ProjectDTO struct {
	ID             int64    `json:"id"`
	HomeownerID    string   `json:"homeownerId"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Budget         *float64 `json:"budget"`
	Status         string   `json:"status"`
	ProfessionalID *string  `json:"professionalId"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      *string  `json:"updatedAt"`
	CompletedAt    *string  `json:"completedAt"`
}

func toProjectDTO(project *domain.Project) ProjectDTO {
	var professionalID *string
	if project.ProfessionalID != nil {
		value := project.ProfessionalID.String()
		professionalID = &value
	}

	var updatedAt *string
	if project.UpdatedAt != nil {
		value := project.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	var completedAt *string
	if project.CompletedAt != nil {
		value := project.CompletedAt.Format(time.RFC3339)
		completedAt = &value
	}

	return ProjectDTO{
		ID:             project.ID,
		HomeownerID:    project.HomeownerID.String(),
		Title:          project.Title,
		Description:    project.Description,
		Category:       project.Category,
		Budget:         project.Budget,
		Status:         string(project.Status),
		ProfessionalID: professionalID,
		CreatedAt:      project.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      updatedAt,
		CompletedAt:    completedAt,
	}
}

func toProjectDTOs(projects []*domain.Project) []ProjectDTO {
	response := make([]ProjectDTO, 0, len(projects))
	for _, project := range projects {
		response = append(response, toProjectDTO(project))
	}
	return response
}

// --- Handlers ---

// HandleListProjects handles GET /projects
func (h *ProjectHandler) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	pagination := validation.ParsePagination(r, maxProjectsPerPage)
	status := validation.ParseStringQueryParam(r, "status")
	category := validation.ParseStringQueryParam(r, "category")
	mine := validation.ParseBoolQueryParam(r, "mine", false)

	if status != nil {
		v := validation.NewValidator()
		v.OneOf("status", *status, []string{"OPEN", "ASSIGNED", "IN_PROGRESS", "COMPLETED"})
		if v.HasErrors() {
			h.errorHandler.Handle(w, r, v.Errors())
			return
		}
	}

	params := ports.ListProjectsParams{
		ViewerID: claims.UserID,
		Limit:    pagination.Limit + 1,
		Offset:   pagination.Offset,
		Status:   status,
		Category: category,
		Mine:     mine,
	}

	projects, err := h.projectService.ListProjects(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WritePaginated(w, toProjectDTOs(projects), pagination.Limit, pagination.Offset)
}

// HandleCreateProject handles POST /projects
func (h *ProjectHandler) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[CreateProjectRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	project, err := h.projectService.CreateProject(r.Context(), ports.CreateProjectParams{
		HomeownerID: claims.UserID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Budget:      req.Budget,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("project created",
		"project_id", project.ID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toProjectDTO(project))
}

// HandleGetProject handles GET /projects/{projectID}
func (h *ProjectHandler) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := ParseProjectID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	project, err := h.projectService.GetProject(r.Context(), projectID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toProjectDTO(project))
}

// HandleUpdateProjectStatus handles PATCH /projects/{projectID}/status
func (h *ProjectHandler) HandleUpdateProjectStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	projectID, err := ParseProjectID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateProjectStatusRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	project, err := h.projectService.UpdateStatus(r.Context(), ports.UpdateProjectStatusParams{
		ProjectID: projectID,
		Status:    domain.ProjectStatus(req.Status),
		ActorID:   claims.UserID,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("project status updated",
		"project_id", projectID,
		"new_status", req.Status,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, toProjectDTO(project))
}

func (h *ProjectHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}

// ParseProjectID extracts the projectID URL parameter. It is shared by the
// handlers mounted under /projects/{projectID}.
func ParseProjectID(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "projectID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		v := validation.NewValidator()
		v.Custom("projectID", false, "Invalid project ID")
		return 0, v.Errors()
	}
	return id, nil
}
