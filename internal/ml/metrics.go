package ml

import (
	"fmt"
	"strings"
)

// ConfusionMatrix counts m[truth][pred]. Out of range entries are ignored.
func ConfusionMatrix(pred, truth []int, numClasses int) [][]int {
	m := make([][]int, numClasses)
	for i := range m {
		m[i] = make([]int, numClasses)
	}
	for i := 0; i < len(truth) && i < len(pred); i++ {
		t, p := truth[i], pred[i]
		if t < 0 || t >= numClasses || p < 0 || p >= numClasses {
			continue
		}
		m[t][p]++
	}
	return m
}

// Share of matching predictions, 0 for empty input
func Accuracy(pred, truth []int) float64 {
	n := len(truth)
	if len(pred) < n {
		n = len(pred)
	}
	if n == 0 {
		return 0
	}
	hits := 0
	for i := 0; i < n; i++ {
		if pred[i] == truth[i] {
			hits++
		}
	}
	return float64(hits) / float64(n)
}

// FormatConfusionMatrix renders the matrix as a plain text table, rows are true classes
func FormatConfusionMatrix(classes []string, m [][]int) string {
	width := 5
	for _, c := range classes {
		if len(c) > width {
			width = len(c)
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%*s", width, ""))
	for _, c := range classes {
		sb.WriteString(fmt.Sprintf(" %*s", width, c))
	}
	sb.WriteString("\n")
	for i, row := range m {
		name := fmt.Sprintf("%d", i)
		if i < len(classes) {
			name = classes[i]
		}
		sb.WriteString(fmt.Sprintf("%*s", width, name))
		for _, v := range row {
			sb.WriteString(fmt.Sprintf(" %*d", width, v))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Summary line of a training history
func FormatSummary(h History) string {
	last, ok := h.Last()
	if !ok {
		return "no epochs"
	}
	s := fmt.Sprintf("final loss %.4f, final acc %.2f%%", last.Loss, last.Accuracy*100)
	if last.HasValidation {
		s += fmt.Sprintf(", val loss %.4f, val acc %.2f%%", last.ValLoss, last.ValAccuracy*100)
	}
	return s
}
