package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/adityaanikam/AI-agent-project/internal/records"
)

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	return t
}

func intent(rec *records.Record) string {
	if rec.Classification == nil {
		return "-"
	}
	return rec.Classification.BusinessIntent
}

func actionSummary(rec *records.Record) string {
	if len(rec.ActionsTriggered) == 0 {
		return "-"
	}
	parts := make([]string, len(rec.ActionsTriggered))
	for i, a := range rec.ActionsTriggered {
		switch {
		case !a.Success:
			parts[i] = fmt.Sprintf("%s (failed)", a.ActionKind)
		case a.Mocked:
			parts[i] = fmt.Sprintf("%s (mock)", a.ActionKind)
		default:
			parts[i] = string(a.ActionKind)
		}
	}
	return strings.Join(parts, ", ")
}
