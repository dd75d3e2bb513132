package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	semsearch "github.com/kailas-cloud/semsearch/pkg/sdk"
)

func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Semantic search across connected sources",
		Long:  `Embed the query, search the tenant's namespace and print ranked results.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runSearch,
	}

	cmd.Flags().StringP("tenant", "t", "", "Tenant id (server default when empty)")
	cmd.Flags().IntP("top-k", "k", 0, "Maximum results (server default when 0)")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	client, err := clientFor(cmd)
	if err != nil {
		return err
	}

	tenant, _ := cmd.Flags().GetString("tenant")
	topK, _ := cmd.Flags().GetInt("top-k")
	asJSON, _ := cmd.Flags().GetBool("json")

	var opts []semsearch.SearchOption
	if tenant != "" {
		opts = append(opts, semsearch.Tenant(tenant))
	}
	if topK > 0 {
		opts = append(opts, semsearch.TopK(topK))
	}

	res, err := client.Search(cmd.Context(), args[0], opts...)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	out := cmd.OutOrStdout()
	if res.Degraded {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: search degraded, showing fallback results")
	}
	if len(res.Results) == 0 {
		fmt.Fprintln(out, "no results")
		return nil
	}
	for _, r := range res.Results {
		fmt.Fprintf(out, "%.4f  [%s] %s\n", r.Score, r.Platform, r.Title)
		fmt.Fprintf(out, "        %s  %s\n", r.Timestamp, r.Link)
	}
	return nil
}
