package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"labsched/models"
)

var (
	slashDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?\b`)
	isoDateRe   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)

	// "Início: 07h30" takes priority over bare time occurrences in the text.
	startTimeRe = regexp.MustCompile(`(?i)in[ií]cio\s*:?\s*(\d{1,2})[h:](\d{2})`)
	clockTimeRe = regexp.MustCompile(`\b(\d{1,2})[h:](\d{2})\b`)
)

// snapToleranceMinutes is how far a parsed time may sit from a block start
// and still snap onto that block.
const snapToleranceMinutes = 90

// ParseDate extracts the first date from loosely formatted text and returns
// it as "YYYY-MM-DD". Accepted forms are D/M, D/M/YY, D/M/YYYY (2-digit
// years are assumed 2000s) and ISO dates; trailing weekday names are
// tolerated because the match is positional. Missing year uses defaultYear
// (0 = current year). Returns "" on no match or an invalid calendar date;
// callers treat that as "needs manual date entry", never as fatal.
func ParseDate(text string, defaultYear int) string {
	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return formatValidDate(year, month, day)
	}

	m := slashDateRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])

	year := defaultYear
	if year <= 0 {
		year = time.Now().Year()
	}
	if m[3] != "" {
		y, _ := strconv.Atoi(m[3])
		if y < 100 {
			y += 2000
		}
		year = y
	}
	return formatValidDate(year, month, day)
}

func formatValidDate(year, month, day int) string {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 31/02 becomes 02/03 or 03/03);
	// a shifted result means the calendar date did not exist.
	if t.Day() != day || int(t.Month()) != month {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// MapToTimeBlocks extracts every time occurrence from text ("7h30", "07:30")
// and snaps each onto a canonical time block. A time equal to a block's
// exact start or end belongs to that block; otherwise the nearest block
// start within the snap tolerance wins. Multiple distinct matches yield
// multiple blocks; no match yields an empty set, never an error.
func MapToTimeBlocks(text string, blocks []models.TimeBlock) []string {
	var minutes []int
	if m := startTimeRe.FindStringSubmatch(text); m != nil {
		minutes = append(minutes, toMinutes(m[1], m[2]))
	} else {
		for _, m := range clockTimeRe.FindAllStringSubmatch(text, -1) {
			minutes = append(minutes, toMinutes(m[1], m[2]))
		}
	}

	seen := make(map[string]bool)
	var result []string
	for _, min := range minutes {
		if min < 0 {
			continue
		}
		id := snapBlock(min, blocks)
		if id != "" && !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
	}
	return result
}

func toMinutes(hh, mm string) int {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if h > 23 || m > 59 {
		return -1
	}
	return h*60 + m
}

func snapBlock(minute int, blocks []models.TimeBlock) string {
	// Exact boundary hit first, so a canonical range like "07:00-09:10"
	// re-normalizes to that single block instead of bleeding into the next.
	for _, b := range blocks {
		if minute == b.StartMinute || minute == b.EndMinute {
			return b.ID
		}
	}
	bestID := ""
	bestDiff := snapToleranceMinutes + 1
	for _, b := range blocks {
		diff := minute - b.StartMinute
		if diff < 0 {
			diff = -diff
		}
		if diff <= snapToleranceMinutes && diff < bestDiff {
			bestDiff = diff
			bestID = b.ID
		}
	}
	return bestID
}
