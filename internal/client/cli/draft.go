package cli

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/daybook/internal/client/models"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newDraftCmd(ref *appRef) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Keep unfinished entries",
	}
	cmd.AddCommand(
		newDraftSaveCmd(ref),
		newDraftShowCmd(ref),
		newDraftListCmd(ref),
		newDraftDiscardCmd(ref),
	)
	return cmd
}

func newDraftSaveCmd(ref *appRef) *cobra.Command {
	var story, thankful string
	cmd := &cobra.Command{
		Use:   "save [date]",
		Short: "Save a draft for a date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ref.get()
			if err != nil {
				return err
			}

			d := models.Draft{Date: dateArg(a, args), Storyworthy: story, Thankful: thankful}
			if !textFlagsChanged(cmd) {
				if d.Storyworthy, err = GetMultiline(a.reader, "What was storyworthy today?", a.out); err != nil {
					return err
				}
				if d.Thankful, err = GetMultiline(a.reader, "What are you thankful for?", a.out); err != nil {
					return err
				}
			}
			if err := a.entryService.SaveDraft(cmd.Context(), d); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Draft saved for %s\n", d.Date)
			return nil
		},
	}
	cmd.Flags().StringVarP(&story, "story", "s", "", "the storyworthy moment of the day")
	cmd.Flags().StringVarP(&thankful, "thankful", "t", "", "what you are thankful for")
	return cmd
}

func newDraftShowCmd(ref *appRef) *cobra.Command {
	return &cobra.Command{
		Use:   "show [date]",
		Short: "Print a draft",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ref.get()
			if err != nil {
				return err
			}
			d, err := a.entryService.GetDraft(cmd.Context(), dateArg(a, args))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Date:        %s\n", d.Date)
			fmt.Fprintf(a.out, "Storyworthy: %s\n", d.Storyworthy)
			fmt.Fprintf(a.out, "Thankful:    %s\n", d.Thankful)
			fmt.Fprintf(a.out, "Saved:       %s\n", humanize.RelTime(time.UnixMilli(d.UpdatedAt), a.now(), "ago", "from now"))
			return nil
		},
	}
}

func newDraftListCmd(ref *appRef) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ref.get()
			if err != nil {
				return err
			}
			list, err := a.entryService.ListDrafts(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(a.out, "No drafts")
				return nil
			}
			for _, d := range list {
				text := d.Storyworthy
				if text == "" {
					text = d.Thankful
				}
				fmt.Fprintf(a.out, "%s  %s\n", d.Date, preview(text))
			}
			return nil
		},
	}
}

func newDraftDiscardCmd(ref *appRef) *cobra.Command {
	return &cobra.Command{
		Use:   "discard <date>",
		Short: "Delete a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ref.get()
			if err != nil {
				return err
			}
			if err := a.entryService.DeleteDraft(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Draft for %s discarded\n", args[0])
			return nil
		},
	}
}
