package main

import (
	"github.com/spf13/cobra"

	"github.com/adityaanikam/AI-agent-project/internal/api"
	"github.com/adityaanikam/AI-agent-project/internal/config"
	"github.com/adityaanikam/AI-agent-project/internal/infrastructure"
)

type rootFlags struct {
	config string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "flowbit",
		Short: "Classify, analyze, and route documents through the FlowBit pipeline",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage: true,
		Version:      version,
	}

	cmd.PersistentFlags().StringVar(&flags.config, "config", "", "Config file (default ./config.toml when present)")

	cmd.AddCommand(
		newProcessCmd(&flags),
		newStatusCmd(&flags),
		newHistoryCmd(&flags),
		newOpenAPICmd(&flags),
	)
	return cmd
}

// session is the in-process wiring shared by every subcommand.
type session struct {
	cfg     *config.Config
	infra   *infrastructure.Infrastructure
	runtime *api.Runtime
	domain  *api.Domain
}

func openSession(cmd *cobra.Command, flags *rootFlags) (*session, error) {
	var opts []config.Option
	if flags.config != "" {
		opts = append(opts, config.WithFile(flags.config))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}

	infra, err := infrastructure.New(cfg, infrastructure.WithLogOutput(cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}

	runtime := api.NewRuntime(cfg, infra)
	domain, err := api.NewDomain(cfg, runtime)
	if err != nil {
		infra.Close()
		return nil, err
	}

	return &session{cfg: cfg, infra: infra, runtime: runtime, domain: domain}, nil
}

func (s *session) Close() error {
	return s.infra.Close()
}
