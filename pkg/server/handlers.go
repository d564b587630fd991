package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harrisonrobin/taskplan/pkg/depgraph"
	"github.com/harrisonrobin/taskplan/pkg/model"
	"github.com/harrisonrobin/taskplan/pkg/schedule"
)

// graphView is the JSON form of a dependency graph.
type graphView struct {
	Nodes      []string              `json:"nodes"`
	Links      []depgraph.Link       `json:"links"`
	Unresolved []depgraph.Unresolved `json:"unresolved"`
	Cycle      []string              `json:"cycle,omitempty"`
	Order      []string              `json:"order"`
	Warnings   []model.Warning       `json:"warnings"`
}

// todayParam reads ?today=, falling back to the server clock.
func (s *Server) todayParam(c *gin.Context) (model.Date, bool) {
	raw := c.Query("today")
	if raw == "" {
		return s.today(), true
	}
	d, err := model.ParseAnyDate(raw)
	if err != nil || d.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid today parameter: " + raw})
		return model.Date{}, false
	}
	return d, true
}

func (s *Server) handleTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tasks": s.snapshot()})
}

func (s *Server) handleGraph(c *gin.Context) {
	g := depgraph.Build(s.snapshot())
	c.JSON(http.StatusOK, graphView{
		Nodes:      g.Nodes(),
		Links:      g.Links(),
		Unresolved: g.Unresolved(),
		Cycle:      g.Cycle(),
		Order:      g.TopoOrder(),
		Warnings:   g.Warnings(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	today, ok := s.todayParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, schedule.Summarize(s.snapshot(), today))
}

func (s *Server) handleBurnDown(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"points": schedule.BurnDown(s.snapshot())})
}

func (s *Server) handleProgress(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"points": schedule.ProgressOverTime(s.snapshot())})
}

func (s *Server) handleResources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"assignees": schedule.ResourceLoad(s.snapshot())})
}

func (s *Server) handleBudget(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tasks": schedule.BudgetVsActuals(s.snapshot())})
}

func (s *Server) handleKanban(c *gin.Context) {
	c.JSON(http.StatusOK, schedule.Kanban(s.snapshot()))
}

func (s *Server) handleDelayed(c *gin.Context) {
	today, ok := s.todayParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"today":   today,
		"delayed": schedule.Delayed(s.snapshot(), today),
	})
}
