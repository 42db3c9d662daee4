package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/credlens/credlens/internal/factcheck"
	"github.com/credlens/credlens/internal/index"
	"github.com/credlens/credlens/internal/model"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "credlens",
	})
}

// listAnnouncements handles GET /api/announcements
func (s *Server) listAnnouncements(c *gin.Context) {
	filter := index.ListFilter{
		Status: model.AnnouncementStatus(c.Query("status")),
		Symbol: c.Query("symbol"),
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}

	all := s.index.List(filter)
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	c.JSON(http.StatusOK, gin.H{
		"announcements": all[start:end],
		"total":         len(all),
		"page":          page,
		"limit":         limit,
	})
}

// getAnnouncement handles GET /api/announcements/:id
func (s *Server) getAnnouncement(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid announcement id"})
		return
	}

	ann, err := s.index.Get(id)
	if errors.Is(err, model.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "announcement not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ann)
}

// analyzeAnnouncement handles POST /api/announcements/:id/analyze.
// The request waits up to analyzeWait for the pipeline; past that it
// answers 202 and the job finishes in the background. Clients poll
// GET /api/announcements/:id for the final status.
func (s *Server) analyzeAnnouncement(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid announcement id"})
		return
	}

	if _, err := s.index.Get(id); errors.Is(err, model.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "announcement not found"})
		return
	}

	done := s.pool.Submit(id)
	select {
	case r := <-done:
		if errors.Is(r.Err, model.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "announcement not found"})
			return
		}
		if r.Err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": r.Err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"announcement_id":   id,
			"status":            model.StatusAnalyzed,
			"credibility_score": r.Summary.CredibilityScore,
			"summary":           r.Summary,
		})
	case <-time.After(s.analyzeWait):
		c.JSON(http.StatusAccepted, gin.H{
			"announcement_id": id,
			"status":          model.StatusAnalyzing,
		})
	}
}

// factCheck handles POST /api/fact-check with multipart text_content
// and/or file fields
func (s *Server) factCheck(c *gin.Context) {
	req := factcheck.Request{
		Text: c.PostForm("text_content"),
	}

	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file upload"})
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file upload"})
			return
		}
		req.FileName = file.Filename
		req.FileBytes = data
	}

	resp, err := s.checker.Check(c.Request.Context(), req)
	if errors.Is(err, model.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// stats handles GET /api/stats
func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, s.index.Stats())
}
