package complaints

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ClassMetrics holds the scores of one row of a ClassificationReport.
type ClassMetrics struct {
	Class     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// ClassificationReport is the per-class breakdown behind Metrics.
type ClassificationReport struct {
	Classes     []ClassMetrics
	Accuracy    float64
	MacroAvg    ClassMetrics
	WeightedAvg ClassMetrics
	Total       int
}

const minReportNameWidth = len("weighted avg")

// String renders the report as a fixed-width table:
//
//	              precision    recall  f1-score   support
//
//	       Fraud       1.00      1.00      1.00         2
//	        Loan       1.00      1.00      1.00         1
//
//	    accuracy                           1.00         3
//	   macro avg       1.00      1.00      1.00         3
//	weighted avg       1.00      1.00      1.00         3
func (r ClassificationReport) String() string {
	width := minReportNameWidth
	for _, c := range r.Classes {
		if len(c.Class) > width {
			width = len(c.Class)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%*s  %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	for _, c := range r.Classes {
		writeReportRow(&sb, width, c)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%*s  %9s %9s %9.2f %9d\n", width, "accuracy", "", "", r.Accuracy, r.Total)
	writeReportRow(&sb, width, r.MacroAvg)
	writeReportRow(&sb, width, r.WeightedAvg)
	return sb.String()
}

func writeReportRow(sb *strings.Builder, width int, c ClassMetrics) {
	fmt.Fprintf(sb, "%*s  %9.2f %9.2f %9.2f %9d\n", width, c.Class, c.Precision, c.Recall, c.F1, c.Support)
}

// ConfusionMatrix counts predictions; rows are true classes and columns are
// predicted classes, both in Classes order.
type ConfusionMatrix struct {
	Classes []string
	Counts  *mat.Dense
}

// Count returns how often truth was predicted as predicted.
func (c ConfusionMatrix) Count(truth, predicted string) int {
	r, ok1 := indexOf(c.Classes, truth)
	col, ok2 := indexOf(c.Classes, predicted)
	if !ok1 || !ok2 || c.Counts == nil {
		return 0
	}
	return int(c.Counts.At(r, col))
}

func (c ConfusionMatrix) String() string {
	if c.Counts == nil {
		return ""
	}
	width := len("true\\pred")
	for _, class := range c.Classes {
		if len(class) > width {
			width = len(class)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-*s", width, "true\\pred")
	for _, class := range c.Classes {
		fmt.Fprintf(&sb, " %*s", width, class)
	}
	sb.WriteString("\n")
	for i, class := range c.Classes {
		fmt.Fprintf(&sb, "%-*s", width, class)
		for j := range c.Classes {
			fmt.Fprintf(&sb, " %*d", width, int(c.Counts.At(i, j)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func indexOf(values []string, v string) (int, bool) {
	for i, s := range values {
		if s == v {
			return i, true
		}
	}
	return 0, false
}
