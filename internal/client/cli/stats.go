package cli

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/daybook/internal/client/analytics"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newStatsCmd(ref *appRef) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show streaks, writing habits and frequent words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ref.get()
			if err != nil {
				return err
			}
			list, err := a.entryService.ListAll(cmd.Context())
			if err != nil {
				return err
			}

			s := analytics.Summarize(list, a.now(), time.Local, top)
			w := a.out

			fmt.Fprintf(w, "Entries:        %d (%d with text, %d with photos)\n", s.TotalEntries, s.CompletedEntries, s.WithPhotos)
			if !s.Meaningful {
				fmt.Fprintf(w, "Write at least %d entries to see statistics\n", analytics.MinMeaningfulEntries)
				return nil
			}
			fmt.Fprintf(w, "Current streak: %s\n", days(s.Streak.Current))
			fmt.Fprintf(w, "Longest streak: %s\n", days(s.Streak.Longest))
			fmt.Fprintf(w, "Average words:  %.1f\n", s.AverageWords)

			fmt.Fprintf(w, "Time of day:    mostly %s\n", s.TimeOfDay.Dominant)
			for _, b := range analytics.Bands {
				fmt.Fprintf(w, "  %-10s %d\n", b, s.TimeOfDay.Count(b))
			}

			if len(s.TopWords) > 0 {
				fmt.Fprintln(w, "Top words:")
				for i, wc := range s.TopWords {
					fmt.Fprintf(w, "  %2d. %-16s %d\n", i+1, wc.Word, wc.Count)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 10, "number of frequent words to show")
	return cmd
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func newUsageCmd(ref *appRef) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show local storage use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ref.get()
			if err != nil {
				return err
			}
			u, err := a.entryService.Usage(cmd.Context())
			if err != nil {
				return err
			}
			if u.QuotaBytes <= 0 {
				fmt.Fprintf(a.out, "Used %s (no quota)\n", humanize.Bytes(uint64(u.UsedBytes)))
				return nil
			}
			fmt.Fprintf(a.out, "Used %s of %s (%.1f%%)\n",
				humanize.Bytes(uint64(u.UsedBytes)), humanize.Bytes(uint64(u.QuotaBytes)), u.Percent())
			return nil
		},
	}
}
