package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/daybook/internal/client/media"
	"github.com/dmitrijs2005/daybook/internal/client/models"
	"github.com/dmitrijs2005/daybook/internal/client/services"
	"github.com/spf13/cobra"
)

type entryFlags struct {
	story       string
	thankful    string
	photo       string
	removePhoto bool
}

func (f *entryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.story, "story", "s", "", "the storyworthy moment of the day")
	cmd.Flags().StringVarP(&f.thankful, "thankful", "t", "", "what you are thankful for")
	cmd.Flags().StringVarP(&f.photo, "photo", "p", "", "path of a photo to attach")
}

func textFlagsChanged(cmd *cobra.Command) bool {
	return cmd.Flags().Changed("story") || cmd.Flags().Changed("thankful")
}

func loadPhoto(path string) (*media.Input, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	in := &media.Input{Data: data, Name: filepath.Base(path)}
	in.ContentType = media.DetectContentType(*in)
	return in, nil
}

func (a *App) promptTexts(in *services.EntryInput) error {
	story, err := GetMultiline(a.reader, "What was storyworthy today?", a.out)
	if err != nil {
		return err
	}
	thankful, err := GetMultiline(a.reader, "What are you thankful for?", a.out)
	if err != nil {
		return err
	}
	in.Storyworthy, in.Thankful = story, thankful
	return nil
}

// reportSave prints the outcome of Add/Update; a skipped photo is a
// warning, not a failure.
func (a *App) reportSave(verb string, e *models.Entry, err error) error {
	if e == nil {
		return err
	}
	if errors.Is(err, services.ErrPhotoSkipped) {
		fmt.Fprintf(a.out, "Warning: %v\n", err)
	} else if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s entry for %s\n", verb, e.Date)
	return nil
}

func dateArg(a *App, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return models.Today(a.now())
}

func newAddCmd(ref *appRef) *cobra.Command {
	var f entryFlags
	var fromDraft bool
	cmd := &cobra.Command{
		Use:   "add [date]",
		Short: "Write the entry for a date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ref.get()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			in := services.EntryInput{Date: dateArg(a, args), Storyworthy: f.story, Thankful: f.thankful}
			switch {
			case fromDraft:
				d, err := a.entryService.GetDraft(ctx, in.Date)
				if err != nil {
					return fmt.Errorf("no draft for %s: %w", in.Date, err)
				}
				in.Storyworthy, in.Thankful = d.Storyworthy, d.Thankful
			case !textFlagsChanged(cmd):
				if err := a.promptTexts(&in); err != nil {
					return err
				}
			}
			if in.Photo, err = loadPhoto(f.photo); err != nil {
				return err
			}

			e, err := a.entryService.Add(ctx, in)
			return a.reportSave("Saved", e, err)
		},
	}
	f.bind(cmd)
	cmd.Flags().BoolVar(&fromDraft, "from-draft", false, "take the text from the saved draft")
	return cmd
}

func newEditCmd(ref *appRef) *cobra.Command {
	var f entryFlags
	cmd := &cobra.Command{
		Use:   "edit <date>",
		Short: "Change an existing entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ref.get()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			cur, err := a.entryService.Get(ctx, args[0])
			if err != nil {
				return err
			}

			in := services.EntryInput{
				Date:        cur.Date,
				Storyworthy: cur.Storyworthy,
				Thankful:    cur.Thankful,
				RemovePhoto: f.removePhoto,
			}
			switch {
			case textFlagsChanged(cmd):
				if cmd.Flags().Changed("story") {
					in.Storyworthy = f.story
				}
				if cmd.Flags().Changed("thankful") {
					in.Thankful = f.thankful
				}
			case f.photo == "" && !f.removePhoto:
				if err := a.promptTexts(&in); err != nil {
					return err
				}
			}
			if in.Photo, err = loadPhoto(f.photo); err != nil {
				return err
			}

			e, err := a.entryService.Update(ctx, in)
			return a.reportSave("Updated", e, err)
		},
	}
	f.bind(cmd)
	cmd.Flags().BoolVar(&f.removePhoto, "remove-photo", false, "drop the attached photo")
	return cmd
}

func newShowCmd(ref *appRef) *cobra.Command {
	var dataURL bool
	cmd := &cobra.Command{
		Use:   "show [date]",
		Short: "Print one entry (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ref.get()
			if err != nil {
				return err
			}
			e, err := a.entryService.Get(cmd.Context(), dateArg(a, args))
			if err != nil {
				return err
			}
			printEntry(a.out, e, a.now())
			if dataURL {
				printDataURLs(a.out, e)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dataURL, "data-url", false, "also print the stored photo and thumbnail as data: URLs")
	return cmd
}

func newListCmd(ref *appRef) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ref.get()
			if err != nil {
				return err
			}

			var list []models.Entry
			if all {
				list, err = a.entryService.ListAll(cmd.Context())
			} else {
				list, err = a.entryService.List(cmd.Context())
			}
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(a.out, "No entries yet")
				return nil
			}
			for i := range list {
				fmt.Fprintln(a.out, entryLine(&list[i]))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include entries without text")
	return cmd
}

func newDeleteCmd(ref *appRef) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <date>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry here and, when signed in, on the server",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ref.get()
			if err != nil {
				return err
			}
			if err := a.entryService.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted entry for %s\n", args[0])
			return nil
		},
	}
}
