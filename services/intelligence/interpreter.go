package intelligence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"labsched/models"
	"labsched/services/extraction"
	"labsched/services/schedule"
)

const CodeInterpretationFailed = "interpretationFailed"

// InterpretationError is the failure type for the LLM strategy: the call
// itself errored, or its response was not the required JSON shape. It is
// never retried automatically and never silently falls back to the
// heuristic strategy.
type InterpretationError struct {
	Message string
	Err     error
}

func (e *InterpretationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", CodeInterpretationFailed, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", CodeInterpretationFailed, e.Message)
}

func (e *InterpretationError) Unwrap() error { return e.Err }

// IsInterpretationFailed reports whether err came from the LLM strategy.
func IsInterpretationFailed(err error) bool {
	var ie *InterpretationError
	return errors.As(err, &ie)
}

// CompletionFunc is the single chat-style call the engine depends on.
type CompletionFunc func(ctx context.Context, prompt string) (string, error)

// GeminiEngine is the LLM-delegated extraction strategy. It satisfies the
// same contract as the heuristic engine; either can be swapped without
// touching conflict checking or commit.
type GeminiEngine struct {
	Generate CompletionFunc
	Catalogs *models.Catalogs
}

func NewGeminiEngine(client *GeminiClient, catalogs *models.Catalogs) *GeminiEngine {
	return &GeminiEngine{Generate: client.GenerateContent, Catalogs: catalogs}
}

// rawCandidate is the schema the model is instructed to return.
type rawCandidate struct {
	Subject       string   `json:"subject"`
	Date          string   `json:"date"`
	TimeBlocks    []string `json:"timeBlocks"`
	LabID         string   `json:"labId"`
	Confidence    string   `json:"confidence"`
	Rationale     string   `json:"rationale"`
	SourceExcerpt string   `json:"sourceExcerpt"`
}

func (e *GeminiEngine) Extract(ctx context.Context, lines []extraction.SourceLine, meta schedule.SourceMeta) ([]models.CandidateSession, error) {
	prompt := BuildPrompt(lines, e.Catalogs, meta.DefaultYear)

	response, err := e.Generate(ctx, prompt)
	if err != nil {
		return nil, &InterpretationError{Message: "interpretation call failed", Err: err}
	}

	items, err := decodeCandidateArray(response)
	if err != nil {
		return nil, &InterpretationError{Message: "model response is not a candidate array", Err: err}
	}

	candidates := make([]models.CandidateSession, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, e.mapCandidate(item, meta))
	}
	return candidates, nil
}

// decodeCandidateArray accepts either a bare JSON array or an object whose
// first array-valued field is taken as the array.
func decodeCandidateArray(response string) ([]rawCandidate, error) {
	trimmed := strings.TrimSpace(stripFences(response))
	if trimmed == "" {
		return nil, fmt.Errorf("empty response")
	}

	var items []rawCandidate
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	if !strings.HasPrefix(trimmed, "{") {
		return nil, fmt.Errorf("response is neither an array nor an object")
	}

	// Walk the object's fields in document order looking for the first array.
	dec := json.NewDecoder(strings.NewReader(trimmed))
	if _, err := dec.Token(); err != nil { // consume "{"
		return nil, err
	}
	for dec.More() {
		if _, err := dec.Token(); err != nil { // field name
			return nil, err
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		if bytes.HasPrefix(bytes.TrimSpace(value), []byte("[")) {
			if err := json.Unmarshal(value, &items); err != nil {
				return nil, err
			}
			return items, nil
		}
	}
	return nil, fmt.Errorf("object response contains no array field")
}

// stripFences removes a markdown code fence some models wrap around output
// even when asked for raw JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return s
}

// mapCandidate funnels a model item through the same normalizer and resolver
// as the heuristic path, so free-text lab names or off-catalog block labels
// volunteered by the model are still normalized.
func (e *GeminiEngine) mapCandidate(item rawCandidate, meta schedule.SourceMeta) models.CandidateSession {
	c := models.CandidateSession{
		ID:                  uuid.New().String(),
		Subject:             strings.TrimSpace(item.Subject),
		OriginalSubjectText: item.Subject,
		Selected:            true,
		Courses:             nil,
		Confidence:          normalizeConfidence(item.Confidence),
		ExtractionRationale: item.Rationale,
		SourceExcerpt:       item.SourceExcerpt,
	}
	if c.Subject == "" {
		c.Subject = models.PlaceholderSubject
	}

	if item.Date != "" {
		c.ScheduledDate = schedule.ParseDate(item.Date, meta.DefaultYear)
	}

	for _, blockID := range item.TimeBlocks {
		if e.Catalogs.BlockByID(blockID) != nil {
			c.TimeBlocks = append(c.TimeBlocks, blockID)
			continue
		}
		// Not a catalog id; treat it as loose time text and snap it.
		for _, snapped := range schedule.MapToTimeBlocks(blockID, e.Catalogs.TimeBlocks) {
			c.TimeBlocks = append(c.TimeBlocks, snapped)
		}
	}
	c.TimeBlocks = dedupe(c.TimeBlocks)

	if item.LabID != "" {
		if lab := e.Catalogs.LabByID(item.LabID); lab != nil {
			c.LabID = lab.ID
			c.LabType = lab.LabType
		} else if lab := schedule.ResolveLab(item.LabID, e.Catalogs.Labs); lab != nil {
			c.LabID = lab.ID
			c.LabType = lab.LabType
		}
	}
	return c
}

func normalizeConfidence(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case models.ConfidenceHigh:
		return models.ConfidenceHigh
	case models.ConfidenceLow:
		return models.ConfidenceLow
	default:
		return models.ConfidenceMedium
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
