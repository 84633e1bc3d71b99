package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"codeberg.org/snonux/freestyle/internal"
	"codeberg.org/snonux/freestyle/internal/analytics"
	"codeberg.org/snonux/freestyle/internal/beats"
	"codeberg.org/snonux/freestyle/internal/wordgen"
	"codeberg.org/snonux/freestyle/internal/wordpool"
)

type generateRequest struct {
	Difficulty   string   `json:"difficulty"`
	Theme        string   `json:"theme"`
	ExcludeWords []string `json:"excludeWords"`
}

func (s *Server) handleGenerateWords(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	difficulty := wordpool.Difficulty(req.Difficulty)
	if !difficulty.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid difficulty level"})
		return
	}
	theme := wordpool.Theme(req.Theme)
	if !theme.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid theme"})
		return
	}

	if s.deps.Generator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Word generation is not configured"})
		return
	}

	exclude := lo.Uniq(lo.Compact(lo.Map(req.ExcludeWords, func(w string, _ int) string {
		return internal.NormalizeWord(w)
	})))

	word, err := s.deps.Generator.Generate(c.Request.Context(), wordgen.Request{
		Theme:      theme,
		Difficulty: difficulty,
		Exclude:    exclude,
	})
	if err != nil {
		s.logger.Warn("Word generation error",
			zap.String("theme", string(theme)),
			zap.String("difficulty", string(difficulty)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to generate word",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, wordgen.GenerateResponse{Words: []string{word}})
}

type rhymesRequest struct {
	Word string `json:"word"`
}

func (s *Server) handleRhymes(c *gin.Context) {
	var req rhymesRequest
	if err := c.ShouldBindJSON(&req); err != nil || internal.NormalizeWord(req.Word) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Word is required"})
		return
	}

	if s.deps.Rhymer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Rhyme generation is not configured"})
		return
	}

	rhymes, err := s.deps.Rhymer.Rhymes(c.Request.Context(), req.Word)
	if err != nil {
		s.logger.Warn("Rhyme generation error", zap.String("word", req.Word), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate rhyming words"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rhymes": rhymes})
}

func (s *Server) handleAnalyzeSpeech(c *gin.Context) {
	var take analytics.Take
	if err := c.ShouldBindJSON(&take); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	report, err := analytics.Analyze(take, s.deps.Now())
	if errors.Is(err, analytics.ErrNegativeDuration) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze speech"})
		return
	}

	c.JSON(http.StatusOK, report)
}

type catalogEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Rule  string `json:"rule,omitempty"`
}

func (s *Server) handleCatalog(c *gin.Context) {
	themes := lo.Map(wordpool.Themes(), func(t wordpool.Theme, _ int) catalogEntry {
		return catalogEntry{ID: string(t), Label: t.Label()}
	})
	difficulties := lo.Map(wordpool.Difficulties(), func(d wordpool.Difficulty, _ int) catalogEntry {
		return catalogEntry{ID: string(d), Label: d.Label(), Rule: wordgen.RuleFor(d).String()}
	})

	c.JSON(http.StatusOK, gin.H{
		"themes":       themes,
		"difficulties": difficulties,
		"beats":        beats.Catalog(),
		"defaults": gin.H{
			"theme":      s.cfg.Scheduler.Theme,
			"difficulty": s.cfg.Scheduler.Difficulty,
			"beat":       s.cfg.DefaultBeat,
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"env":       map[bool]string{true: "production", false: "development"}[s.cfg.Production],
		"version":   internal.Version,
		"sessions":  s.sessions.len(),
		"generator": s.deps.Generator != nil,
		"uptime":    s.deps.Now().Sub(s.started).Round(time.Second).String(),
		"timestamp": s.deps.Now().UTC().Format(time.RFC3339),
	})
}
