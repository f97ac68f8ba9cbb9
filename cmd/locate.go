package cmd

import (
	"fmt"

	"github.com/lepinkainen/takeoutdate/sidecar"
	"github.com/lepinkainen/takeoutdate/types"
	"github.com/lepinkainen/takeoutdate/ui"
	"github.com/spf13/afero"
)

// LocateCmd prints how each media file resolves to its sidecar.
type LocateCmd struct {
	Files   []string `arg:"" name:"files" help:"Media files to resolve" type:"path"`
	Verbose bool     `short:"v" help:"List every candidate that was tried"`

	fs afero.Fs
}

func (cmd *LocateCmd) Run(appCtx *types.AppContext) error {
	out := appCtx.Stdout()
	fsys := cmd.fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	locator := sidecar.NewLocator(fsys)

	for _, file := range cmd.Files {
		match, err := locator.Locate(file)
		if err != nil {
			return err
		}

		if match.Exists {
			fmt.Fprintf(out, "%s\n  %s %s\n", file, ui.SuccessStyle.Render(match.Strategy), match.Path)
		} else {
			fmt.Fprintf(out, "%s\n  %s\n", file, ui.WarnStyle.Render("no sidecar"))
		}

		if cmd.Verbose || !match.Exists {
			for _, c := range locator.Candidates(file) {
				fmt.Fprintln(out, ui.DimStyle.Render(fmt.Sprintf("    tried %-12s %s", c.Strategy, c.Path)))
			}
		}
	}
	return nil
}
