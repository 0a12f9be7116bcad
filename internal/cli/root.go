// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tomtom215/eventsieve/internal/client"
	"github.com/tomtom215/eventsieve/internal/models"
)

// EventSource is the server API the commands use. *client.Client
// implements it.
type EventSource interface {
	Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error)
	TechEvents(ctx context.Context, page, perPage int) (*models.SearchResponse, error)
	Today(ctx context.Context, after string) (*models.SearchResponse, error)
}

// Options configure NewRootCommand.
type Options struct {
	Version string

	// NewSource builds the API client for a server URL. Defaults to
	// client.New.
	NewSource func(serverURL string) EventSource
}

// NewRootCommand builds the eventsieve command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.NewSource == nil {
		opts.NewSource = func(serverURL string) EventSource { return client.New(serverURL) }
	}

	var serverURL string
	source := func() EventSource { return opts.NewSource(serverURL) }

	root := &cobra.Command{
		Use:   "eventsieve",
		Short: "Find tech events from the command line",
		Long: `EventSieve queries an EventSieve server and prints events in a compact,
chat-friendly layout.

The server address comes from --server, then ` + client.ServerURLEnv + `, then
` + client.DefaultServerURL + `.`,
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "EventSieve server URL")

	root.AddCommand(
		newSearchCommand(source),
		newTechEventsCommand(source),
		newTodayCommand(source),
		newVersionCommand(opts.Version),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute(version string) error {
	return NewRootCommand(Options{Version: version}).Execute()
}
