package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/openlearn-hub-api/internal/models"
	"github.com/noah-isme/openlearn-hub-api/internal/service"
)

func bindCriteriaFlags(cmd *cobra.Command, criteria *models.FilterCriteria) {
	cmd.Flags().StringVar(&criteria.Category, "category", models.FilterAll, "category filter")
	cmd.Flags().StringVar(&criteria.Level, "level", models.FilterAll, "level filter")
	cmd.Flags().StringVar(&criteria.Type, "type", models.FilterAll, "resource type filter")
}

func newListCmd(c *cli) *cobra.Command {
	var (
		criteria models.FilterCriteria
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List resources matching the given filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, _, err := c.resources.List(cmd.Context(), criteria)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			return writeTable(cmd.OutOrStdout(), items)
		},
	}
	bindCriteriaFlags(cmd, &criteria)
	cmd.Flags().StringVar(&criteria.Search, "search", "", "case-insensitive text over title, description and tags")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one resource and related resources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.resources.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n%s\n\n", res.Title, res.Description)
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "ID\t%s\n", res.ID)
			fmt.Fprintf(w, "Category\t%s\n", res.Category)
			fmt.Fprintf(w, "Level\t%s\n", res.Level)
			fmt.Fprintf(w, "Type\t%s\n", res.Type)
			fmt.Fprintf(w, "URL\t%s\n", res.URL)
			fmt.Fprintf(w, "Tags\t%s\n", strings.Join(res.Tags, ", "))
			if res.Contributor != nil {
				fmt.Fprintf(w, "Contributor\t%s\n", *res.Contributor)
			}
			if res.Views != nil {
				fmt.Fprintf(w, "Views\t%d\n", *res.Views)
			}
			fmt.Fprintf(w, "Added\t%s\n", res.CreatedAt)
			if err := w.Flush(); err != nil {
				return err
			}

			related, err := c.resources.Related(cmd.Context(), res.ID, 0)
			if err != nil {
				return err
			}
			if len(related) > 0 {
				fmt.Fprintln(out, "\nRelated:")
				for _, r := range related {
					fmt.Fprintf(out, "  %s  %s\n", r.ID, r.Title)
				}
			}
			return nil
		},
	}
}

// newSearchCmd reads one search box state per stdin line. Lines arriving inside the
// debounce window are coalesced, so only settled terms are evaluated.
func newSearchCmd(c *cli) *cobra.Command {
	var (
		criteria models.FilterCriteria
		window   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Interactive search: each stdin line replaces the search term",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if window <= 0 {
				window = c.cfg.Search.Debounce
			}
			catalog, err := c.catalog.All(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var mu sync.Mutex
			render := func(criteria models.FilterCriteria, results []models.Resource) {
				mu.Lock()
				defer mu.Unlock()
				fmt.Fprintf(out, "> %q: %s\n", criteria.Search, service.SummarizeCount(len(results)))
				for _, r := range results {
					fmt.Fprintf(out, "  %s  %s\n", r.ID, r.Title)
				}
			}

			session := service.NewSearchSession(catalog, window, nil, render)
			defer session.Close()
			session.Select(criteria)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				session.Input(scanner.Text())
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			session.Flush()
			return nil
		},
	}
	bindCriteriaFlags(cmd, &criteria)
	cmd.Flags().DurationVar(&window, "debounce", 0, "settle window (defaults to SEARCH_DEBOUNCE)")
	return cmd
}

func newValidateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <draft.yaml>",
		Short: "Run the submission rules against a YAML draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read draft: %w", err)
			}
			var draft models.SubmissionDraft
			if err := yaml.Unmarshal(raw, &draft); err != nil {
				return fmt.Errorf("parse draft: %w", err)
			}

			out := cmd.OutOrStdout()
			validated, fieldErrs := service.ValidateSubmission(draft, c.cfg.Uploads.MaxSizeMB)
			if fieldErrs != nil {
				fields := make([]string, 0, len(fieldErrs))
				for field := range fieldErrs {
					fields = append(fields, field)
				}
				sort.Strings(fields)
				for _, field := range fields {
					issue := fieldErrs[field]
					fmt.Fprintf(out, "%s: %s (%s)\n", field, issue.Message, issue.Kind)
				}
				return fmt.Errorf("draft has %d invalid field(s)", len(fieldErrs))
			}
			fmt.Fprintf(out, "valid: %q (%s, %s, %s)\n", validated.Title, validated.Category, validated.Level, validated.Type)
			return nil
		},
	}
}

func newExportCmd(c *cli) *cobra.Command {
	var (
		criteria models.FilterCriteria
		format   string
		output   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a filtered list as CSV or PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.resources.Export(cmd.Context(), criteria, format)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(result.Body)
				return err
			}
			if err := os.WriteFile(output, result.Body, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%s)\n", output, service.SummarizeCount(result.Count))
			return nil
		},
	}
	bindCriteriaFlags(cmd, &criteria)
	cmd.Flags().StringVar(&criteria.Search, "search", "", "search term")
	cmd.Flags().StringVar(&format, "format", service.ExportFormatCSV, "csv or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func writeTable(out io.Writer, items []models.Resource) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tLEVEL\tTYPE")
	for _, r := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Title, r.Category, r.Level, r.Type)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, service.SummarizeCount(len(items)))
	return err
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
