package intelligence

import (
	"fmt"
	"strings"

	"labsched/models"
	"labsched/services/extraction"
)

// promptCharBudget bounds how much source text goes into one prompt, keeping
// the call inside model context and latency limits.
const promptCharBudget = 12000

// topicLabHints is the topic-to-lab cheat sheet handed to the model so
// common subject wording lands on the right catalog entry.
var topicLabHints = []struct {
	topics string
	labID  string
}{
	{"anatomy, dissection, osteology", "anatomy-1"},
	{"histology, cytology, microscope slides", "microscopy"},
	{"biochemistry, molecular assays", "biochemistry"},
	{"microbiology, bacteriology, culture", "microbiology"},
	{"clinical skills, semiology, procedures", "skills"},
	{"simulation, realistic scenarios, mannequins", "simulation"},
	{"informatics, statistics, software", "informatics"},
}

// BuildPrompt serializes the extracted source lines into a single
// instruction for the interpretation model: fixed output schema, the full
// lab catalog, topic hints, and the rules about practical-only sessions and
// duplicates.
func BuildPrompt(lines []extraction.SourceLine, catalogs *models.Catalogs, defaultYear int) string {
	var sb strings.Builder

	sb.WriteString("You are an assistant that extracts laboratory class sessions from a school schedule document.\n")
	sb.WriteString("Return ONLY a JSON array. Each element must have exactly these fields:\n")
	sb.WriteString(`{"subject": string, "date": "YYYY-MM-DD" or null, "timeBlocks": array of block ids, "labId": catalog lab id or null, "confidence": "high"|"medium"|"low", "rationale": string, "sourceExcerpt": string}` + "\n\n")

	sb.WriteString("Valid time block ids (sessions must snap to these):\n")
	for _, tb := range catalogs.TimeBlocks {
		fmt.Fprintf(&sb, "- %s (%s)\n", tb.ID, tb.Shift)
	}

	sb.WriteString("\nLab catalog (use the id, never invent labs):\n")
	for _, lab := range catalogs.Labs {
		fmt.Fprintf(&sb, "- id=%s name=%q type=%s\n", lab.ID, lab.DisplayName, lab.LabType)
	}

	sb.WriteString("\nTopic hints for choosing a lab:\n")
	for _, hint := range topicLabHints {
		fmt.Fprintf(&sb, "- %s -> %s\n", hint.topics, hint.labID)
	}

	sb.WriteString("\nRules:\n")
	sb.WriteString("- Extract ONLY practical/laboratory sessions; ignore theoretical lectures, exams and holidays.\n")
	sb.WriteString("- Never emit two entries for the same subject on the same date.\n")
	fmt.Fprintf(&sb, "- Dates without a year belong to %d.\n", defaultYear)
	sb.WriteString("- If a field cannot be determined, use null (or an empty array) and lower the confidence; do not guess.\n")
	sb.WriteString("- rationale must say why the lab and date were chosen; sourceExcerpt must quote the source line.\n")

	sb.WriteString("\nDocument content:\n")
	budget := promptCharBudget
	for _, line := range lines {
		entry := line.Origin + ": " + line.Text + "\n"
		if line.Tabular() {
			entry = fmt.Sprintf("%s: date=%q time=%q topic=%q lab=%q\n",
				line.Origin, line.Row[extraction.ColDate], line.Row[extraction.ColTime],
				line.Row[extraction.ColTopic], line.Row[extraction.ColLab])
		}
		if len(entry) > budget {
			break
		}
		sb.WriteString(entry)
		budget -= len(entry)
	}

	return sb.String()
}
