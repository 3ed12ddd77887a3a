package extraction

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfMinLineLength filters out stray fragments; PDF is the lowest-fidelity
// source and only keyword-bearing lines of reasonable length are kept.
const pdfMinLineLength = 12

// extractPDF pulls positioned text fragments per page, clusters them into
// visual lines by rounding their vertical coordinate, and keeps lines that
// mention a lab/practical keyword.
func extractPDF(data []byte) ([]SourceLine, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, NewExtractionFailedError("could not open PDF", err)
	}

	var lines []SourceLine
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		origin := fmt.Sprintf("PDF page %d", pageNum)
		for _, text := range clusterLines(content.Text) {
			if len(text) < pdfMinLineLength || !HasLabKeyword(text) {
				continue
			}
			lines = append(lines, SourceLine{Text: text, Origin: origin})
		}
	}
	return lines, nil
}

// clusterLines groups text fragments sharing (roughly) one vertical position
// into a line, top of page first, fragments ordered left to right.
func clusterLines(fragments []pdf.Text) []string {
	byY := make(map[int][]pdf.Text)
	var ys []int
	for _, fr := range fragments {
		if strings.TrimSpace(fr.S) == "" {
			continue
		}
		y := int(math.Round(fr.Y / 2)) // 2pt tolerance for baseline jitter
		if _, ok := byY[y]; !ok {
			ys = append(ys, y)
		}
		byY[y] = append(byY[y], fr)
	}
	// PDF y grows upward, so higher y comes first on the page.
	sort.Sort(sort.Reverse(sort.IntSlice(ys)))

	var lines []string
	for _, y := range ys {
		frs := byY[y]
		sort.Slice(frs, func(i, j int) bool { return frs[i].X < frs[j].X })
		var sb strings.Builder
		var lastEnd float64
		for _, fr := range frs {
			if sb.Len() > 0 && fr.X-lastEnd > 1 {
				sb.WriteString(" ")
			}
			sb.WriteString(fr.S)
			lastEnd = fr.X + fr.W
		}
		line := strings.Join(strings.Fields(sb.String()), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
