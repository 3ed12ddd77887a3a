package intelligence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labsched/config"
	"labsched/models"
	"labsched/services/extraction"
	"labsched/services/schedule"
)

func staticResponse(response string) CompletionFunc {
	return func(ctx context.Context, prompt string) (string, error) {
		return response, nil
	}
}

func testEngine(response string) *GeminiEngine {
	return &GeminiEngine{
		Generate: staticResponse(response),
		Catalogs: config.DefaultCatalogs(),
	}
}

func extract(t *testing.T, engine *GeminiEngine) []models.CandidateSession {
	t.Helper()
	lines := []extraction.SourceLine{{Text: "Practical class 12/03 07:30", Origin: "PDF page 1"}}
	got, err := engine.Extract(context.Background(), lines, schedule.SourceMeta{FileName: "plan.pdf", DefaultYear: 2025})
	require.NoError(t, err)
	return got
}

func TestExtractBareArrayResponse(t *testing.T) {
	engine := testEngine(`[
		{"subject": "Cell Biology", "date": "2025-03-12", "timeBlocks": ["07:00-09:10"],
		 "labId": "anatomy-1", "confidence": "high", "rationale": "row 3 of the table",
		 "sourceExcerpt": "12/03 | 07h30 | Cell Biology"}
	]`)

	got := extract(t, engine)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, "Cell Biology", c.Subject)
	assert.Equal(t, "2025-03-12", c.ScheduledDate)
	assert.Equal(t, []string{"07:00-09:10"}, c.TimeBlocks)
	assert.Equal(t, "anatomy-1", c.LabID)
	assert.Equal(t, "anatomy", c.LabType)
	assert.Equal(t, models.ConfidenceHigh, c.Confidence)
	assert.Equal(t, "row 3 of the table", c.ExtractionRationale)
	assert.True(t, c.Selected)
}

func TestExtractObjectWrappedResponse(t *testing.T) {
	engine := testEngine(`{"note": "extracted from tables", "sessions": [
		{"subject": "Suturing", "date": "2025-05-02", "timeBlocks": ["13:00-15:10"], "labId": "skills", "confidence": "medium"}
	]}`)

	got := extract(t, engine)
	require.Len(t, got, 1)
	assert.Equal(t, "Suturing", got[0].Subject)
	assert.Equal(t, "skills", got[0].LabID)
}

func TestExtractFencedResponse(t *testing.T) {
	engine := testEngine("```json\n[{\"subject\": \"Suturing\", \"date\": \"2025-05-02\", \"timeBlocks\": [], \"labId\": \"skills\"}]\n```")

	got := extract(t, engine)
	require.Len(t, got, 1)
	assert.Equal(t, "Suturing", got[0].Subject)
}

func TestExtractInvalidResponses(t *testing.T) {
	cases := map[string]string{
		"prose":         "I could not find any practical sessions in this document.",
		"empty":         "",
		"truncatedJSON": `[{"subject": "Cell Bio`,
		"objectNoArray": `{"count": 3, "status": "done"}`,
	}
	for name, response := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := testEngine(response).Extract(context.Background(), nil, schedule.SourceMeta{DefaultYear: 2025})
			require.Error(t, err)
			assert.True(t, IsInterpretationFailed(err))
		})
	}
}

func TestExtractGenerateErrorWrapped(t *testing.T) {
	cause := errors.New("quota exceeded")
	engine := &GeminiEngine{
		Generate: func(ctx context.Context, prompt string) (string, error) { return "", cause },
		Catalogs: config.DefaultCatalogs(),
	}

	_, err := engine.Extract(context.Background(), nil, schedule.SourceMeta{DefaultYear: 2025})
	require.Error(t, err)
	assert.True(t, IsInterpretationFailed(err))
	assert.ErrorIs(t, err, cause)
}

func TestMapCandidateNormalizesLooseFields(t *testing.T) {
	// The model volunteered a free-text lab name, an off-catalog time and a
	// short date; all of them go through the same normalization as the
	// heuristic path.
	engine := testEngine(`[
		{"subject": "  Gram staining ", "date": "22/04", "timeBlocks": ["09:00", "09:30-11:40"],
		 "labId": "Microbiology Lab", "confidence": "certain"}
	]`)

	got := extract(t, engine)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, "Gram staining", c.Subject)
	assert.Equal(t, "2025-04-22", c.ScheduledDate)
	// 09:00 snaps into the 09:30 block and collapses with the explicit id.
	assert.Equal(t, []string{"09:30-11:40"}, c.TimeBlocks)
	assert.Equal(t, "microbiology", c.LabID)
	// Unknown confidence wording degrades to medium.
	assert.Equal(t, models.ConfidenceMedium, c.Confidence)
}

func TestMapCandidateEmptySubjectGetsPlaceholder(t *testing.T) {
	engine := testEngine(`[{"subject": "", "date": "2025-04-22", "timeBlocks": ["09:30-11:40"], "labId": "microbiology"}]`)

	got := extract(t, engine)
	require.Len(t, got, 1)
	assert.Equal(t, models.PlaceholderSubject, got[0].Subject)
}
