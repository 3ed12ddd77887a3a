package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"labsched/config"
	"labsched/models"
	"labsched/services/extraction"
	"labsched/services/intelligence"
	"labsched/services/schedule"
	"labsched/utils"
)

// maxUploadBytes caps how much of an uploaded schedule document is read.
const maxUploadBytes = 15 << 20

// ScheduleHandler exposes the extraction/review/commit pipeline over HTTP.
type ScheduleHandler struct {
	Heuristic *schedule.HeuristicEngine
	LLM       *intelligence.GeminiEngine // nil when no API key is configured
	Conflicts *schedule.ConflictChecker
	Commits   *schedule.CommitService
	Cache     *redis.Client
	Catalogs  *models.Catalogs
	Logger    *zap.Logger
}

func NewScheduleHandler(
	heuristic *schedule.HeuristicEngine,
	llm *intelligence.GeminiEngine,
	conflicts *schedule.ConflictChecker,
	commits *schedule.CommitService,
	cache *redis.Client,
	catalogs *models.Catalogs,
	logger *zap.Logger,
) *ScheduleHandler {
	return &ScheduleHandler{
		Heuristic: heuristic,
		LLM:       llm,
		Conflicts: conflicts,
		Commits:   commits,
		Cache:     cache,
		Catalogs:  catalogs,
		Logger:    logger,
	}
}

// ExtractHandler accepts an uploaded schedule document, runs the selected
// extraction strategy and opens a review session holding the candidates.
func (h *ScheduleHandler) ExtractHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "missing file", "multipart field \"file\" is required")
		return
	}
	strategy := c.DefaultPostForm("strategy", schedule.StrategyHeuristic)

	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "could not read upload", err.Error())
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "could not read upload", err.Error())
		return
	}

	lines, err := extraction.Extract(fileHeader.Filename, data)
	if err != nil {
		h.extractionError(c, fileHeader.Filename, err)
		return
	}

	engine, err := h.engineFor(strategy)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "unknown strategy", err.Error())
		return
	}

	meta := schedule.SourceMeta{FileName: fileHeader.Filename, DefaultYear: defaultYear()}
	candidates, err := engine.Extract(c.Request.Context(), lines, meta)
	if err != nil {
		h.extractionError(c, fileHeader.Filename, err)
		return
	}

	if err := h.Conflicts.CheckConflicts(c.Request.Context(), candidates); err != nil {
		utils.JSONError(c, http.StatusBadGateway, "conflict check failed", err.Error())
		return
	}

	session := &utils.ReviewSession{
		ID:         uuid.New().String(),
		FileName:   fileHeader.Filename,
		Strategy:   strategy,
		Candidates: candidates,
		CreatedAt:  time.Now(),
	}
	if err := utils.SaveReviewSession(h.Cache, session); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to store review session", err.Error())
		return
	}

	h.Logger.Info("extraction complete",
		zap.String("file", fileHeader.Filename),
		zap.String("strategy", strategy),
		zap.Int("candidates", len(candidates)))

	c.JSON(http.StatusOK, gin.H{
		"session":      session,
		"summary":      summarize(candidates),
		"noCandidates": len(candidates) == 0,
	})
}

func (h *ScheduleHandler) engineFor(strategy string) (schedule.Engine, error) {
	switch strategy {
	case schedule.StrategyHeuristic:
		return h.Heuristic, nil
	case schedule.StrategyLLM:
		if h.LLM == nil {
			return nil, errStrategyUnavailable
		}
		return h.LLM, nil
	default:
		return nil, errUnknownStrategy(strategy)
	}
}

// extractionError maps pipeline stage failures onto status codes. Every
// response names the file and offers manual entry; these failures are never
// retried automatically.
func (h *ScheduleHandler) extractionError(c *gin.Context, fileName string, err error) {
	switch {
	case extraction.IsUnsupportedFormat(err):
		utils.JSONError(c, http.StatusUnsupportedMediaType, "unsupported file format", err.Error())
	case extraction.IsExtractionFailed(err):
		h.Logger.Warn("extraction failed", zap.String("file", fileName), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message":         "could not extract sessions from " + fileName,
			"details":         err.Error(),
			"manualEntryHint": true,
		})
	case intelligence.IsInterpretationFailed(err):
		h.Logger.Warn("interpretation failed", zap.String("file", fileName), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message":         "the interpretation service could not read " + fileName,
			"details":         err.Error(),
			"manualEntryHint": true,
		})
	default:
		utils.JSONError(c, http.StatusInternalServerError, "extraction error", err.Error())
	}
}

// GetSessionHandler returns the current review session state.
func (h *ScheduleHandler) GetSessionHandler(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "summary": summarize(session.Candidates)})
}

// DiscardSessionHandler drops the in-memory candidate list. Always safe:
// nothing is persisted before commit.
func (h *ScheduleHandler) DiscardSessionHandler(c *gin.Context) {
	if err := utils.DeleteReviewSession(h.Cache, c.Param("sessionID")); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to discard session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"discarded": true})
}

// candidateEdit is a partial update; only present fields are applied.
type candidateEdit struct {
	Subject       *string   `json:"subject"`
	Selected      *bool     `json:"selected"`
	ScheduledDate *string   `json:"scheduledDate"`
	TimeBlocks    *[]string `json:"timeBlocks"`
	LabID         *string   `json:"labId"`
	Courses       *[]string `json:"courses"`
	Notes         *string   `json:"notes"`
}

// UpdateCandidateHandler applies a user edit to one candidate. Edits that
// move lab/date/time re-check that candidate against the store so stale
// collisions clear and new ones surface; the rest of the batch is untouched.
func (h *ScheduleHandler) UpdateCandidateHandler(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}
	candidate := session.Candidate(c.Param("candidateID"))
	if candidate == nil {
		utils.JSONError(c, http.StatusNotFound, "candidate not found", c.Param("candidateID"))
		return
	}

	var edit candidateEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	collisionEdit := false
	if edit.Subject != nil {
		candidate.Subject = *edit.Subject
	}
	if edit.Selected != nil {
		candidate.Selected = *edit.Selected
	}
	if edit.ScheduledDate != nil {
		candidate.ScheduledDate = *edit.ScheduledDate
		collisionEdit = true
	}
	if edit.TimeBlocks != nil {
		candidate.TimeBlocks = *edit.TimeBlocks
		collisionEdit = true
	}
	if edit.LabID != nil {
		candidate.LabID = *edit.LabID
		candidate.LabType = ""
		if lab := h.Catalogs.LabByID(*edit.LabID); lab != nil {
			candidate.LabType = lab.LabType
		}
		collisionEdit = true
	}
	if edit.Courses != nil {
		candidate.Courses = *edit.Courses
	}
	if edit.Notes != nil {
		candidate.Notes = *edit.Notes
	}

	if collisionEdit {
		if err := h.Conflicts.CheckCandidate(c.Request.Context(), candidate); err != nil {
			utils.JSONError(c, http.StatusBadGateway, "conflict check failed", err.Error())
			return
		}
	}

	if err := utils.SaveReviewSession(h.Cache, session); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to store review session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "summary": summarize(session.Candidates)})
}

// AddCandidateHandler is the manual-entry fallback: the user types a session
// in when extraction failed or missed one.
func (h *ScheduleHandler) AddCandidateHandler(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	var input models.CandidateSession
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	input.ID = uuid.New().String()
	input.Selected = true
	input.Confidence = models.ConfidenceHigh // user-entered, not guessed
	input.Conflict = nil
	if lab := h.Catalogs.LabByID(input.LabID); lab != nil {
		input.LabType = lab.LabType
	}

	session.Candidates = append(session.Candidates, input)
	added := &session.Candidates[len(session.Candidates)-1]
	if err := h.Conflicts.CheckCandidate(c.Request.Context(), added); err != nil {
		utils.JSONError(c, http.StatusBadGateway, "conflict check failed", err.Error())
		return
	}
	if err := utils.SaveReviewSession(h.Cache, session); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to store review session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "summary": summarize(session.Candidates)})
}

// DeleteCandidateHandler removes one candidate from the review batch.
func (h *ScheduleHandler) DeleteCandidateHandler(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}
	id := c.Param("candidateID")
	kept := session.Candidates[:0]
	found := false
	for _, cand := range session.Candidates {
		if cand.ID == id {
			found = true
			continue
		}
		kept = append(kept, cand)
	}
	if !found {
		utils.JSONError(c, http.StatusNotFound, "candidate not found", id)
		return
	}
	session.Candidates = kept
	if err := utils.SaveReviewSession(h.Cache, session); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to store review session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "summary": summarize(session.Candidates)})
}

// RecheckHandler re-runs the conflict pass on demand.
func (h *ScheduleHandler) RecheckHandler(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}
	if err := h.Conflicts.CheckConflicts(c.Request.Context(), session.Candidates); err != nil {
		utils.JSONError(c, http.StatusBadGateway, "conflict check failed", err.Error())
		return
	}
	if err := utils.SaveReviewSession(h.Cache, session); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to store review session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "summary": summarize(session.Candidates)})
}

// CommitHandler writes every selected candidate to the booking store and
// closes the session when the whole batch succeeded.
func (h *ScheduleHandler) CommitHandler(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}
	role := c.GetString("role")
	userID := c.GetString("userID")

	report, err := h.Commits.Commit(c.Request.Context(), session.Candidates, role, userID)
	if err != nil {
		var ve *schedule.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message": "some selected candidates are not committable",
				"issues":  ve.Issues,
			})
			return
		}
		utils.JSONError(c, http.StatusBadGateway, "commit failed", err.Error())
		return
	}

	if report.Failed == 0 {
		if err := utils.DeleteReviewSession(h.Cache, session.ID); err != nil {
			h.Logger.Warn("failed to drop committed review session", zap.String("sessionID", session.ID), zap.Error(err))
		}
	} else {
		// Keep the session so failed items can be fixed and resubmitted.
		if err := utils.SaveReviewSession(h.Cache, session); err != nil {
			h.Logger.Warn("failed to store review session after partial commit", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (h *ScheduleHandler) loadSession(c *gin.Context) (*utils.ReviewSession, bool) {
	session, err := utils.GetReviewSession(h.Cache, c.Param("sessionID"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "review session not found or expired", c.Param("sessionID"))
		return nil, false
	}
	return session, true
}

// batchSummary is recomputed after every edit for the review UI.
type batchSummary struct {
	Total      int `json:"total"`
	Selected   int `json:"selected"`
	Valid      int `json:"valid"`
	Conflicted int `json:"conflicted"`
}

var errStrategyUnavailable = errors.New("llm strategy is not configured (missing GEMINI_API_KEY)")

func errUnknownStrategy(name string) error {
	return fmt.Errorf("unknown strategy %q: expected %q or %q", name, schedule.StrategyHeuristic, schedule.StrategyLLM)
}

func defaultYear() int {
	return config.DefaultYear()
}

func summarize(candidates []models.CandidateSession) batchSummary {
	s := batchSummary{Total: len(candidates)}
	for i := range candidates {
		c := &candidates[i]
		if c.Selected {
			s.Selected++
		}
		if c.Committable() {
			s.Valid++
		}
		if c.Conflict != nil {
			s.Conflicted++
		}
	}
	return s
}
