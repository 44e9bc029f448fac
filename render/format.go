package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grovetools/statline/progress"
)

// FormatPosition renders the cursor segment. The format is fixed:
//
//	Ln {line}, Col {col} | {percent}%
//
// with "Top" on the first line and "Bot" on (or past) the last. Line and
// column are 1-indexed for display.
func FormatPosition(line, col, total int) string {
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}

	result := "Ln " + strconv.Itoa(line) + ", Col " + strconv.Itoa(col)

	if total > 0 {
		switch {
		case line == 1:
			result += " | Top"
		case line >= total:
			result += " | Bot"
		default:
			result += " | " + strconv.Itoa(line*100/total) + "%"
		}
	}

	return result
}

// EncodeDiagnostics packs per-severity counts into the compact form the
// field cache stores ("error,warn,info,hint"). The cache holds strings only,
// so the renderer round-trips counts through this encoding.
func EncodeDiagnostics(errors, warnings, infos, hints int) string {
	return fmt.Sprintf("%d,%d,%d,%d", errors, warnings, infos, hints)
}

// decodeDiagnostics is the inverse of EncodeDiagnostics. Malformed input
// decodes as all-zero, which renders as no diagnostics segment.
func decodeDiagnostics(s string) (errors, warnings, infos, hints int) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0
	}
	nums := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, 0, 0, 0
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nums[3]
}

// FormatProgress renders the in-flight tasks as a single segment, insertion
// order, separated by " | ". Tasks without a reported percentage show only
// their title (and message when the title is empty).
func FormatProgress(tasks []progress.Task) string {
	if len(tasks) == 0 {
		return ""
	}

	parts := make([]string, 0, len(tasks))
	for _, task := range tasks {
		label := task.Title
		if label == "" {
			label = task.Message
		}
		if label == "" {
			label = task.Token
		}
		if task.HasPercentage {
			label += " " + strconv.Itoa(task.Percentage) + "%"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " | ")
}
