package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/adityaanikam/AI-agent-project/internal/records"
)

func newStatusCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID",
		Short: "Show a processing record and its dispatched actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return records.ErrInvalidID
			}

			s, err := openSession(cmd, root)
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := s.domain.Records.Find(cmd.Context(), id)
			if err != nil {
				return err
			}

			printRecord(cmd, rec)
			return nil
		},
	}
}

func printRecord(cmd *cobra.Command, rec *records.Record) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "ID:       %s\n", rec.ID)
	fmt.Fprintf(out, "Format:   %s\n", rec.InputFormat)
	fmt.Fprintf(out, "Intent:   %s\n", intent(rec))
	fmt.Fprintf(out, "Status:   %s\n", rec.Status)
	if rec.Error != nil {
		fmt.Fprintf(out, "Error:    %s\n", *rec.Error)
	}
	fmt.Fprintf(out, "Created:  %s\n", rec.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "Updated:  %s\n", rec.UpdatedAt.Format(time.RFC3339))

	if len(rec.ActionsTriggered) == 0 {
		return
	}

	fmt.Fprintln(out)
	t := newTable(cmd)
	t.AppendHeader(table.Row{"Action", "Success", "Mocked", "Attempts", "Error"})
	for _, a := range rec.ActionsTriggered {
		t.AppendRow(table.Row{a.ActionKind, a.Success, a.Mocked, a.Attempts, a.Error})
	}
	t.Render()
}
