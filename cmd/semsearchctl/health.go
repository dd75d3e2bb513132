package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var errUnhealthy = errors.New("server unhealthy")

func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server liveness",
		Long:  `Report whether credentials are configured and upstreams are reachable.`,
		Args:  cobra.NoArgs,
		RunE:  runHealth,
	}
}

func runHealth(cmd *cobra.Command, _ []string) error {
	client, err := clientFor(cmd)
	if err != nil {
		return err
	}

	status, err := client.Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "status: %s\n", status.Status)
		names := make([]string, 0, len(status.Checks))
		for name := range status.Checks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "  %-14s %s\n", name, status.Checks[name])
		}
	}

	if !status.Healthy() {
		return errUnhealthy
	}
	return nil
}
