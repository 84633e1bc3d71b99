package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"codeberg.org/snonux/freestyle/internal/beats"
	"codeberg.org/snonux/freestyle/internal/scheduler"
	"codeberg.org/snonux/freestyle/internal/wordpool"
)

// getOrCreateSessionID returns the session cookie, issuing a new one when
// it is missing or malformed
func (s *Server) getOrCreateSessionID(c *gin.Context) string {
	sessionID, err := c.Cookie(sessionCookieName)
	if err != nil || len(sessionID) < 10 {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(sessionCookieName, sessionID, int(s.cfg.CookieMaxAge.Seconds()), "/", "", s.cfg.Production, true)
		s.logger.Debug("Issued session cookie", zap.String("session", sessionID))
	}
	return sessionID
}

// session resolves the caller's session or writes an error response
func (s *Server) session(c *gin.Context) (*session, bool) {
	sess, err := s.sessions.getOrCreate(s.getOrCreateSessionID(c))
	if errors.Is(err, errServerClosed) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Server is shutting down"})
		return nil, false
	}
	if err != nil {
		s.logger.Error("Failed to create session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return nil, false
	}
	return sess, true
}

// viewOf pairs a snapshot with the deck; the deck plays while generating
func viewOf(snap scheduler.Snapshot, deck *beats.Deck) view {
	v := view{Snapshot: snap, Deck: deck.State()}
	v.Deck.Playing = snap.Generating()
	return v
}

func (s *Server) handleSession(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewOf(sess.sched.Snapshot(), sess.deck))
}

func (s *Server) handleStart(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	if err := sess.sched.Start(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session is closed"})
		return
	}
	snap := sess.sched.Snapshot()
	sess.deck.SetPlaying(snap.Generating())
	c.JSON(http.StatusOK, viewOf(snap, sess.deck))
}

func (s *Server) handleStop(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	sess.sched.Stop()
	sess.deck.SetPlaying(false)
	c.JSON(http.StatusOK, viewOf(sess.sched.Snapshot(), sess.deck))
}

type settingsRequest struct {
	Theme      *string `json:"theme"`
	Difficulty *string `json:"difficulty"`
}

func (s *Server) handleSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sess, ok := s.session(c)
	if !ok {
		return
	}

	current := sess.sched.Snapshot()
	theme, difficulty := current.Theme, current.Difficulty
	if req.Theme != nil {
		theme = wordpool.Theme(*req.Theme)
	}
	if req.Difficulty != nil {
		difficulty = wordpool.Difficulty(*req.Difficulty)
	}

	if err := sess.sched.SetSettings(theme, difficulty); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, viewOf(sess.sched.Snapshot(), sess.deck))
}

type beatRequest struct {
	Beat        *string  `json:"beat"`
	BPM         *int     `json:"bpm"`
	Volume      *float64 `json:"volume"`
	VolumeSteps *int     `json:"volumeSteps"`
}

func (s *Server) handleBeat(c *gin.Context) {
	var req beatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Beat != nil {
		if _, err := beats.Lookup(*req.Beat); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	sess, ok := s.session(c)
	if !ok {
		return
	}

	var fade *beats.Crossfade
	if req.Beat != nil {
		var err error
		if fade, err = sess.deck.Select(*req.Beat); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	// BPM after the beat: selecting a beat resets the tempo
	if req.BPM != nil {
		sess.deck.SetBPM(*req.BPM)
	}
	if req.Volume != nil {
		sess.deck.SetVolume(*req.Volume)
	}
	if req.VolumeSteps != nil {
		sess.deck.AdjustVolume(*req.VolumeSteps)
	}

	c.JSON(http.StatusOK, gin.H{
		"deck":      viewOf(sess.sched.Snapshot(), sess.deck).Deck,
		"crossfade": fade,
	})
}

// handleEvents streams every snapshot of the caller's session as
// server-sent events until the client leaves or the session closes
func (s *Server) handleEvents(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	updates, cancel := sess.sched.Subscribe()
	defer cancel()

	c.Header("X-Accel-Buffering", "no")
	ctx := c.Request.Context()

	c.Stream(func(_ io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snap, open := <-updates:
			if !open {
				return false
			}
			s.sessions.touch(sess.id)
			c.SSEvent("snapshot", viewOf(snap, sess.deck))
			return true
		}
	})
}
