package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/adityaanikam/AI-agent-project/internal/pipeline"
	"github.com/adityaanikam/AI-agent-project/internal/records"
)

type processFlags struct {
	format      string
	concurrency int
}

func newProcessCmd(root *rootFlags) *cobra.Command {
	var flags processFlags

	cmd := &cobra.Command{
		Use:   "process FILE...",
		Short: "Run files through the pipeline and wait for their records to settle",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, root, &flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.format, "format", "", "Format override for every file (email, json, pdf)")
	f.IntVar(&flags.concurrency, "concurrency", 0, "Concurrent runs (default pipeline.max_concurrent_runs)")
	return cmd
}

func runProcess(cmd *cobra.Command, root *rootFlags, flags *processFlags, paths []string) error {
	override, err := pipeline.ParseOverride(flags.format)
	if err != nil {
		return err
	}

	s, err := openSession(cmd, root)
	if err != nil {
		return err
	}
	defer s.Close()

	limit := flags.concurrency
	if limit <= 0 {
		limit = s.cfg.Pipeline.MaxConcurrentRuns
	}

	var (
		mu      sync.Mutex
		results = make([]*records.Record, len(paths))
	)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			rec, err := processFile(ctx, s, path, override)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			mu.Lock()
			results[i] = rec
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	t := newTable(cmd)
	t.AppendHeader(table.Row{"File", "ID", "Format", "Intent", "Status", "Actions"})
	for i, rec := range results {
		t.AppendRow(table.Row{
			filepath.Base(paths[i]),
			rec.ID,
			rec.InputFormat,
			intent(rec),
			rec.Status,
			actionSummary(rec),
		})
	}
	t.Render()
	return nil
}

// processFile creates the pending record and runs it to a terminal status.
// A failed run is reported on the record, not as an error.
func processFile(ctx context.Context, s *session, path string, override records.Format) (*records.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	sub := pipeline.NewSubmission(raw, filepath.Base(path), "", override)

	format := override
	if format == "" {
		format = records.FormatUnknown
	}

	rec, err := s.domain.Records.Create(ctx, records.CreateCommand{
		InputFormat:   format,
		InputMetadata: sub.Metadata(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.domain.Orchestrator.Run(ctx, rec.ID, sub); err != nil {
		s.infra.Logger.Warn("run failed", "id", rec.ID, "file", path, "error", err)
	}

	return s.domain.Records.Find(context.WithoutCancel(ctx), rec.ID)
}
