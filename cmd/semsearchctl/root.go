package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	semsearch "github.com/kailas-cloud/semsearch/pkg/sdk"
)

const (
	envServerURL = "SEMSEARCH_URL"
	envAPIKey    = "SEMSEARCH_API_KEY"

	defaultServerURL = "http://localhost:8080"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "semsearchctl",
		Short:         "Query a semsearch server",
		Long:          `Run semantic searches and liveness checks against a semsearch server.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)
	rootCmd.AddCommand(
		NewSearchCmd(),
		NewHealthCmd(),
	)
	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	server := os.Getenv(envServerURL)
	if server == "" {
		server = defaultServerURL
	}
	cmd.PersistentFlags().String("server", server, "Server base URL (env "+envServerURL+")")
	cmd.PersistentFlags().String("api-key", os.Getenv(envAPIKey), "Bearer token (env "+envAPIKey+")")
	cmd.PersistentFlags().Duration("timeout", 15*time.Second, "Request timeout")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
}

func clientFor(cmd *cobra.Command) (*semsearch.Client, error) {
	server, _ := cmd.Flags().GetString("server")
	apiKey, _ := cmd.Flags().GetString("api-key")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	return semsearch.New(server,
		semsearch.WithAPIKey(apiKey),
		semsearch.WithTimeout(timeout),
	)
}
