package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"ticketdash/internal/interfaces/cli/app"
)

var (
	limit int
	prune bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnostics",
		Short: "Show recorded poll and command failures",
		Long: `List the newest entries of the diagnostics journal and a count per source.
With --prune, entries older than diagnostics.retention are deleted first.`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to list")
	cmd.Flags().BoolVar(&prune, "prune", false, "Delete entries older than the retention window first")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	a, err := app.Bootstrap(ctx, app.Options{Journal: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if a.Journal == nil {
		return errors.New("diagnostics journal is disabled or unavailable")
	}
	out := cmd.OutOrStdout()

	if prune {
		removed, err := a.Journal.Prune(ctx, a.Config.Diagnostics.Retention)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Pruned %d entries\n", removed)
	}

	counts, err := a.Journal.CountBySource(ctx)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Fprintln(out, "No failures recorded")
		return nil
	}
	printCounts(out, counts)

	records, err := a.Journal.Recent(ctx, limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSOURCE\tKIND\tMESSAGE")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			rec.OccurredAt.Local().Format(time.DateTime), rec.Source, rec.Kind, rec.Message)
	}
	return w.Flush()
}

func printCounts(out io.Writer, counts map[string]int64) {
	sources := make([]string, 0, len(counts))
	for source := range counts {
		sources = append(sources, source)
	}
	slices.Sort(sources)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tFAILURES")
	for _, source := range sources {
		fmt.Fprintf(w, "%s\t%d\n", source, counts[source])
	}
	_ = w.Flush()
}
