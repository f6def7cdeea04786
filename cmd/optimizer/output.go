package main

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-optimizer/internal/optimizer"
	"github.com/rxtech-lab/argo-optimizer/internal/types"
	"gopkg.in/yaml.v3"
)

// Style definitions.
var (
	// TitleStyle for matrix titles.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HeaderStyle for table headers.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	// CellStyle for table cells.
	CellStyle = lipgloss.NewStyle().Padding(0, 1)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// sweepSummary is the YAML document printed after a sweep.
type sweepSummary struct {
	Report        optimizer.Report       `yaml:"report"`
	Fields        []string               `yaml:"fields"`
	ReturnMean    float64                `yaml:"return_mean"`
	ReturnMedian  float64                `yaml:"return_median"`
	Best          []optimizer.RankedPair `yaml:"best"`
	CombinedStats []types.Metric         `yaml:"combined_stats"`
}

func writeResult(w io.Writer, result *optimizer.Result, metrics []string) error {
	summary := sweepSummary{
		Report:        result.Report(),
		Fields:        result.Fields(),
		Best:          result.Rank(),
		CombinedStats: result.CombineStats(),
	}

	// a sweep whose statistics lack an annual return still prints the rest
	summary.ReturnMean, _ = result.ReturnMean()
	summary.ReturnMedian, _ = result.ReturnMedian()

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	for _, name := range metrics {
		matrix, err := result.Metric(name)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, "\n%s\n%s\n", TitleStyle.Render(matrix.Name), renderMatrix(matrix)); err != nil {
			return err
		}
	}

	return nil
}

// renderMatrix draws a metric matrix with p1 rows, p2 columns, and a mean margin on both axes.
func renderMatrix(matrix *optimizer.MetricMatrix) string {
	rows := matrix.Rows()
	cols := matrix.Cols()
	rowMeans := matrix.RowMeans()
	colMeans := matrix.ColMeans()

	headers := []string{"p1 \\ p2"}
	for _, col := range cols {
		headers = append(headers, types.FormatParam(col))
	}

	headers = append(headers, "mean")

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}

			return CellStyle
		})

	for i, row := range rows {
		cells := []string{types.FormatParam(row)}
		for j := range cols {
			cells = append(cells, formatValue(matrix.At(i, j)))
		}

		cells = append(cells, formatValue(rowMeans[i]))
		t.Row(cells...)
	}

	footer := []string{"mean"}
	for _, v := range colMeans {
		footer = append(footer, formatValue(v))
	}

	footer = append(footer, "")
	t.Row(footer...)

	return t.Render()
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}

	return strconv.FormatFloat(v, 'f', 4, 64)
}
