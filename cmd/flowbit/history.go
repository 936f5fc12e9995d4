package main

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/adityaanikam/AI-agent-project/internal/records"
	"github.com/adityaanikam/AI-agent-project/pkg/pagination"
)

type historyFlags struct {
	limit  int
	page   int
	status string
	format string
}

func newHistoryCmd(root *rootFlags) *cobra.Command {
	var flags historyFlags

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List processing records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, root)
			if err != nil {
				return err
			}
			defer s.Close()

			var filters records.Filters
			if flags.status != "" {
				filters.Status = &flags.status
			}
			if flags.format != "" {
				format := flags.format
				if f, ok := records.ParseFormat(format); ok {
					format = string(f)
				}
				filters.Format = &format
			}

			page := pagination.PageRequest{Page: flags.page, PageSize: flags.limit}
			page.Normalize(s.cfg.API.Pagination)

			result, err := s.domain.Records.History(cmd.Context(), page, filters)
			if err != nil {
				return err
			}

			t := newTable(cmd)
			t.AppendHeader(table.Row{"ID", "Format", "Status", "Created", "Error"})
			for _, r := range result.Data {
				msg := ""
				if r.Error != nil {
					msg = *r.Error
				}
				t.AppendRow(table.Row{r.ID, r.InputFormat, r.Status, r.CreatedAt.Format(time.RFC3339), msg})
			}
			t.AppendFooter(table.Row{"", "", "", "total", result.Total})
			t.Render()
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&flags.limit, "limit", 0, "Records per page (default api.pagination.default_page_size)")
	f.IntVar(&flags.page, "page", 1, "Page number")
	f.StringVar(&flags.status, "status", "", "Only records with this status")
	f.StringVar(&flags.format, "format", "", "Only records with this input format")
	return cmd
}
