package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	projectdomain "github.com/hopelink/hopelink/internal/project/domain"
)

type CreateProjectRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	ImageURL    string         `json:"image_url"`
	GoalCents   int64          `json:"goal_cents"`
	StartDate   *time.Time     `json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	Metadata    map[string]any `json:"metadata"`
}

type UpdateProjectRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	ImageURL    *string        `json:"image_url"`
	GoalCents   *int64         `json:"goal_cents"`
	StartDate   *time.Time     `json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	Status      *string        `json:"status"`
	Metadata    map[string]any `json:"metadata"`
}

// ListProjects serves the public catalog. Only active campaigns are
// visible here; the admin listing shows everything.
func (s *Server) ListProjects(c *gin.Context) {
	resp, err := s.projectSvc.List(c.Request.Context(), projectdomain.ListProjectRequest{
		Status: projectdomain.StatusActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListAllProjects(c *gin.Context) {
	status := projectdomain.Status(strings.ToUpper(strings.TrimSpace(c.Query("status"))))
	resp, err := s.projectSvc.List(c.Request.Context(), projectdomain.ListProjectRequest{
		Status: status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetProjectByID(c *gin.Context) {
	resp, err := s.projectSvc.GetByID(c.Request.Context(), projectdomain.GetProjectRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.projectSvc.Create(c.Request.Context(), projectdomain.CreateProjectRequest{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		GoalCents:   req.GoalCents,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Metadata:    req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateProject(c *gin.Context) {
	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := projectdomain.UpdateProjectRequest{
		ID:          c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		GoalCents:   req.GoalCents,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Metadata:    req.Metadata,
	}
	if req.Status != nil {
		status := projectdomain.Status(strings.ToUpper(strings.TrimSpace(*req.Status)))
		update.Status = &status
	}

	resp, err := s.projectSvc.Update(c.Request.Context(), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) ArchiveProject(c *gin.Context) {
	resp, err := s.projectSvc.Archive(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
