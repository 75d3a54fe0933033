package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/daybook/internal/client/archive"
	"github.com/dmitrijs2005/daybook/internal/client/models"
	"github.com/dmitrijs2005/daybook/internal/filex"
	"github.com/spf13/cobra"
)

func isZip(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zip")
}

func newExportCmd(ref *appRef) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write every entry to a .json or .zip (with photos) file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			a, err := ref.get()
			if err != nil {
				return err
			}
			list, err := a.entryService.ListAll(cmd.Context())
			if err != nil {
				return err
			}

			path := args[0]
			if err := filex.EnsureParent(path); err != nil {
				return err
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, f.Close())
				if err != nil {
					_ = os.Remove(path)
				}
			}()

			if isZip(path) {
				err = archive.WriteZip(f, list, a.now())
			} else {
				err = archive.WriteJSON(f, list, a.now())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Exported %d entries to %s\n", len(list), path)
			return nil
		},
	}
}

func readArchive(path string) ([]models.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !isZip(path) {
		return archive.ReadJSON(f)
	}
	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return archive.ReadZip(f, st.Size())
}

func newImportCmd(ref *appRef) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge entries from an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ref.get()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			incoming, err := readArchive(args[0])
			if err != nil {
				return err
			}

			signedIn, err := a.authService.IsSignedIn(ctx)
			if err != nil {
				return err
			}
			res, err := archive.Import(ctx, a.entries, incoming, signedIn)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Imported: %d added, %d updated, %d skipped\n", res.Added, res.Updated, res.Skipped)
			if signedIn && res.Added+res.Updated > 0 {
				a.trigger.Kick()
			}
			return nil
		},
	}
}
