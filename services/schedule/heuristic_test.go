package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labsched/config"
	"labsched/models"
	"labsched/services/extraction"
)

func testMeta() SourceMeta {
	return SourceMeta{FileName: "schedule.docx", DefaultYear: 2025}
}

func TestHeuristicSyllabusRow(t *testing.T) {
	engine := NewHeuristicEngine(config.DefaultCatalogs())

	lines := []extraction.SourceLine{
		{
			Text:   "12/03 | Início: 07h30 | Cell Biology | Laboratory",
			Origin: "Table 1",
			Row: map[string]string{
				extraction.ColDate:      "12/03",
				extraction.ColTime:      "Início: 07h30",
				extraction.ColTopic:     "Cell Biology",
				extraction.ColPractical: "Laboratory",
			},
		},
	}

	got, err := engine.Extract(context.Background(), lines, testMeta())
	require.NoError(t, err)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, "Cell Biology", c.Subject)
	assert.Equal(t, "2025-03-12", c.ScheduledDate)
	assert.Equal(t, []string{"07:00-09:10"}, c.TimeBlocks)
	assert.Equal(t, models.ConfidenceHigh, c.Confidence)
	assert.True(t, c.Selected)
	assert.NotEmpty(t, c.ID)
}

func TestHeuristicSheetRowWithSectionLab(t *testing.T) {
	engine := NewHeuristicEngine(config.DefaultCatalogs())

	lines := []extraction.SourceLine{
		{
			Text:   "01/04/2025 | 13:00 | Skeletal System",
			Origin: "Sheet: April",
			Row: map[string]string{
				extraction.ColDate:  "01/04/2025",
				extraction.ColTime:  "13:00",
				extraction.ColTopic: "Skeletal System",
				extraction.ColLab:   "Anatomy Lab 1",
			},
		},
	}

	got, err := engine.Extract(context.Background(), lines, testMeta())
	require.NoError(t, err)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, "anatomy-1", c.LabID)
	assert.Equal(t, "anatomy", c.LabType)
	assert.Equal(t, "2025-04-01", c.ScheduledDate)
	assert.Equal(t, []string{"13:00-15:10"}, c.TimeBlocks)
}

func TestHeuristicRowMissingTimeIsMedium(t *testing.T) {
	engine := NewHeuristicEngine(config.DefaultCatalogs())

	lines := []extraction.SourceLine{
		{
			Text:   "20/05 | | Tissue Practice",
			Origin: "Table 1",
			Row: map[string]string{
				extraction.ColDate:  "20/05",
				extraction.ColTime:  "",
				extraction.ColTopic: "Tissue Practice",
			},
		},
	}

	got, err := engine.Extract(context.Background(), lines, testMeta())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.ConfidenceMedium, got[0].Confidence)
	assert.Empty(t, got[0].TimeBlocks)
}

func TestHeuristicFreeTextScan(t *testing.T) {
	engine := NewHeuristicEngine(config.DefaultCatalogs())

	lines := []extraction.SourceLine{
		{Text: "Practical class 15/04 - Microbial cultures", Origin: "PDF page 1"},
		{Text: "Microbiology Lab, 13:00", Origin: "PDF page 1"},
		{Text: "Practical class 22/04 - Gram staining at 07:30", Origin: "PDF page 2"},
	}

	got, err := engine.Extract(context.Background(), lines, testMeta())
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "2025-04-15", first.ScheduledDate)
	// The continuation line filled the open candidate's time and lab.
	assert.Equal(t, []string{"13:00-15:10"}, first.TimeBlocks)
	assert.Equal(t, "microbiology", first.LabID)
	assert.Equal(t, models.ConfidenceHigh, first.Confidence)

	second := got[1]
	assert.Equal(t, "2025-04-22", second.ScheduledDate)
	assert.Equal(t, []string{"07:00-09:10"}, second.TimeBlocks)
}

func TestHeuristicDropsLowConfidencePlaceholders(t *testing.T) {
	engine := NewHeuristicEngine(config.DefaultCatalogs())

	// Long enough to start a candidate on the time alone, but carrying no
	// date and no real subject once time noise is stripped.
	lines := []extraction.SourceLine{
		{Text: "        07:30              ", Origin: "PDF page 3"},
	}

	got, err := engine.Extract(context.Background(), lines, testMeta())
	require.NoError(t, err)
	assert.Empty(t, got)
}
