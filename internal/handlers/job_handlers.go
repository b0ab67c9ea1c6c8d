package handlers

import (
	"net/http"

	"garagepro/internal/common"
	"garagepro/internal/jobs/background"

	"github.com/labstack/echo/v4"
)

// JobRunner is the part of the background scheduler exposed over HTTP.
type JobRunner interface {
	Jobs() []background.JobInfo
	RunNow(name string) (bool, error)
}

type JobHandlers struct {
	scheduler JobRunner
}

func NewJobHandlers(scheduler JobRunner) *JobHandlers {
	return &JobHandlers{scheduler: scheduler}
}

// ListJobs handles GET /jobs
func (h *JobHandlers) ListJobs(c echo.Context) error {
	return c.JSON(http.StatusOK, h.scheduler.Jobs())
}

// RunJob handles POST /jobs/:name/run
func (h *JobHandlers) RunJob(c echo.Context) error {
	name := c.Param("name")
	found, err := h.scheduler.RunNow(name)
	if err != nil {
		return common.SendError(c, err)
	}
	if !found {
		return common.SendNotFoundError(c, "Job")
	}
	return c.JSON(http.StatusAccepted, common.MessageResponse{Message: "Job " + name + " triggered"})
}

func (h *JobHandlers) RegisterRoutes(g *echo.Group) {
	jobs := g.Group("/jobs")
	jobs.GET("", h.ListJobs)
	jobs.POST("/:name/run", h.RunJob)
}
