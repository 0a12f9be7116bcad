// EventSieve - Event Discovery Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventsieve

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/eventsieve/internal/models"
)

// defaultTechEventsPerPage matches the chat bot, which posted three events
// per message.
const defaultTechEventsPerPage = 3

func newSearchCommand(source func() EventSource) *cobra.Command {
	var req models.SearchRequest

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search events by keyword",
		Long: `Search events by keyword, dropping any whose title or description
contains an excluded term.

Examples:
  eventsieve search golang
  eventsieve search "machine learning" --per-page 5 --page 2
  eventsieve search kubernetes --start-date 2026-03-01 --exclude crypto,nft`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Query = strings.Join(args, " ")
			resp, err := source().Search(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			next := fmt.Sprintf("eventsieve search %q --page %d", req.Query, max(req.Page, 1)+1)
			return printEvents(cmd, resp, next)
		},
	}

	cmd.Flags().IntVarP(&req.Page, "page", "p", 0, "page number (server default 1)")
	cmd.Flags().IntVarP(&req.PerPage, "per-page", "n", 0, "events per page (server default)")
	cmd.Flags().StringVar(&req.StartDate, "start-date", "", "earliest start, YYYY-MM-DD or RFC 3339")
	cmd.Flags().StringVar(&req.EndDate, "end-date", "", "latest start, YYYY-MM-DD or RFC 3339")
	cmd.Flags().StringSliceVarP(&req.Exclude, "exclude", "x", nil, "terms to filter out")
	return cmd
}

func newTechEventsCommand(source func() EventSource) *cobra.Command {
	var page, perPage int

	cmd := &cobra.Command{
		Use:   "tech-events",
		Short: "List the merged tech events feed",
		Long: `List the merged tech events feed.

Examples:
  eventsieve tech-events
  eventsieve tech-events --page 2 --per-page 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := source().TechEvents(cmd.Context(), page, perPage)
			if err != nil {
				return fmt.Errorf("tech events: %w", err)
			}
			next := fmt.Sprintf("eventsieve tech-events --page %d --per-page %d", page+1, perPage)
			return printEvents(cmd, resp, next)
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().IntVarP(&perPage, "per-page", "n", defaultTechEventsPerPage, "events per page")
	return cmd
}

func newTodayCommand(source func() EventSource) *cobra.Command {
	var after string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "List events happening for the rest of today",
		Long: `List events happening for the rest of today. Pass the cursor printed
at the end of a listing to --after to continue.

Examples:
  eventsieve today
  eventsieve today --after <cursor>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := source().Today(cmd.Context(), after)
			if err != nil {
				return fmt.Errorf("today: %w", err)
			}
			next := ""
			if resp.PageInfo.EndCursor != nil {
				next = "eventsieve today --after " + *resp.PageInfo.EndCursor
			}
			return printEvents(cmd, resp, next)
		},
	}

	cmd.Flags().StringVarP(&after, "after", "a", "", "continue from this cursor")
	return cmd
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "eventsieve %s\n", version)
		},
	}
}

func printEvents(cmd *cobra.Command, resp *models.SearchResponse, next string) error {
	out := cmd.OutOrStdout()
	if len(resp.Nodes) == 0 {
		_, err := fmt.Fprintln(out, "No events found.")
		return err
	}

	f := NewFormatter(out)
	info := resp.PageInfo
	if next == "" {
		info.HasNextPage = false
	}
	_, err := fmt.Fprint(out, f.Events(resp.Nodes)+f.Footer(info, next))
	return err
}
