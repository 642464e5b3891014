package audit

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

const (
	reportTimestampLayoutConstant = "2006-01-02 15:04:05 MST"
	reportEmptyCellConstant       = "-"
)

// MarkdownReportWriter renders audit results as Markdown.
type MarkdownReportWriter struct {
	output io.Writer
}

// NewMarkdownReportWriter creates a MarkdownReportWriter that writes to output.
func NewMarkdownReportWriter(output io.Writer) *MarkdownReportWriter {
	return &MarkdownReportWriter{output: output}
}

// Write renders the result.
func (writer *MarkdownReportWriter) Write(result Result) error {
	document := markdown.NewMarkdown(writer.output)

	document.H1("Audit report: " + result.Audit)
	document.PlainText("")
	document.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", "`" + result.RunID + "`"},
			{"Base URL", result.BaseURL},
			{"Started", result.StartedAt.Format(reportTimestampLayoutConstant)},
			{"Duration", result.FinishedAt.Sub(result.StartedAt).String()},
		},
	})
	document.PlainText("")

	writer.writeSummary(document, result)

	for _, section := range result.Sections {
		writer.writeSection(document, section)
	}
	return document.Build()
}

func (writer *MarkdownReportWriter) writeSummary(document *markdown.Markdown, result Result) {
	document.H2("Summary")
	document.PlainText("")
	document.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{CheckStatusPass.Symbol() + " Passed", strconv.Itoa(result.Passed)},
			{CheckStatusFail.Symbol() + " Failed", strconv.Itoa(result.Failed)},
			{CheckStatusWarn.Symbol() + " Warnings", strconv.Itoa(result.Warnings)},
		},
	})
	document.PlainText("")

	if result.Passed+result.Failed+result.Warnings > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Check outcomes"),
			piechart.WithShowData(true),
		)
		if result.Passed > 0 {
			chart.LabelAndIntValue("Passed", uint64(result.Passed))
		}
		if result.Failed > 0 {
			chart.LabelAndIntValue("Failed", uint64(result.Failed))
		}
		if result.Warnings > 0 {
			chart.LabelAndIntValue("Warnings", uint64(result.Warnings))
		}
		document.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		document.PlainText("")
	}

	switch {
	case result.Failed > 0:
		document.Warningf("%d check(s) failed.", result.Failed)
	case result.Warnings > 0:
		document.Note(fmt.Sprintf("No failed checks; %d warning(s) need a look.", result.Warnings))
	default:
		document.Tip("All checks passed.")
	}
	document.PlainText("")
}

func (writer *MarkdownReportWriter) writeSection(document *markdown.Markdown, section Section) {
	document.H2(section.Title)
	document.PlainText("")
	if len(section.Viewport.Category) > 0 {
		document.PlainTextf("Viewport category: %s", section.Viewport.Category)
		document.PlainText("")
	}

	rows := make([][]string, 0, len(section.Checks))
	for _, check := range section.Checks {
		symbol := check.Status.Symbol()
		if len(symbol) == 0 {
			symbol = reportEmptyCellConstant
		}
		rows = append(rows, []string{symbol, check.Message})
	}
	if len(rows) > 0 {
		document.Table(markdown.TableSet{Header: []string{"Status", "Check"}, Rows: rows})
		document.PlainText("")
	}

	if len(section.Screenshots) > 0 {
		names := make([]string, 0, len(section.Screenshots))
		for _, screenshotPath := range section.Screenshots {
			names = append(names, "`"+filepath.Base(screenshotPath)+"`")
		}
		document.H3("Screenshots")
		document.BulletList(names...)
		document.PlainText("")
	}
}
