package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adityaanikam/AI-agent-project/internal/api"
	"github.com/adityaanikam/AI-agent-project/pkg/openapi"
)

func newOpenAPICmd(root *rootFlags) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Write the API's OpenAPI document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, root)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := openapi.WriteJSON(api.Spec(s.cfg, s.runtime, s.domain), out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "openapi.json", "Output file")
	return cmd
}
