package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/lepinkainen/takeoutdate/config"
	"github.com/lepinkainen/takeoutdate/exiftool"
	"github.com/lepinkainen/takeoutdate/logging"
	"github.com/lepinkainen/takeoutdate/media"
	"github.com/lepinkainen/takeoutdate/sidecar"
	"github.com/lepinkainen/takeoutdate/types"
	"github.com/lepinkainen/takeoutdate/ui"
	"github.com/lepinkainen/takeoutdate/utils"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
)

// ScanCmd reports files that lack an embedded capture-time tag without
// modifying anything.
type ScanCmd struct {
	Directory string `arg:"" name:"directory" help:"Root of the extracted export" type:"path"`
	Native    bool   `help:"Read EXIF directly instead of using exiftool (JPEG only)"`
	Verbose   bool   `short:"v" help:"List every file missing the tag"`
	Config    string `help:"Config file" type:"path"`

	fs afero.Fs
}

func (cmd *ScanCmd) Run(appCtx *types.AppContext) error {
	out := appCtx.Stdout()
	fsys := cmd.fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}
	loc, _ := cfg.Location()

	root, err := media.CheckRoot(fsys, cmd.Directory)
	if err != nil {
		return err
	}

	var reader media.TagReader
	if cmd.Native {
		reader = exiftool.NewNativeReader(fsys, loc)
	} else {
		if _, err := utils.ValidateExiftoolDependency(cfg.ExiftoolPath); err != nil {
			return fmt.Errorf("%w (or use --native)", err)
		}
		pool := exiftool.Open(exiftool.Options{BinaryPath: cfg.ExiftoolPath, Instances: 1, Location: loc})
		defer pool.Close()
		reader = pool
	}

	log := logging.New(logging.Config{Verbose: cmd.Verbose, Output: appCtx.Stderr()})
	defer func() { _ = log.Sync() }()

	records, err := media.NewDiscoverer(fsys, sidecar.NewLocator(fsys), cfg.Extensions()).Discover(root)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var tagged int
	for _, rec := range records {
		if rec.SupportsEmbeddedTag {
			tagged++
		}
	}

	var progress func()
	if !cmd.Verbose && isTerminal(appCtx.Stderr()) {
		bar := progressbar.NewOptions(tagged,
			progressbar.OptionSetWriter(appCtx.Stderr()),
			progressbar.OptionSetDescription("Reading tags"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		)
		defer func() { _ = bar.Finish() }()
		progress = func() { _ = bar.Add(1) }
	}

	scan, err := media.ScanTags(ctx, media.NewExtractor(fsys, reader, log), records, progress)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, ui.InfoStyle.Render(fmt.Sprintf("Scanned %d media files, %d support a capture tag", len(records), scan.Checked)))
	fmt.Fprintf(out, "  tagged:     %d\n", scan.Tagged)
	fmt.Fprintf(out, "  missing:    %d (%d fixable from sidecar)\n", scan.Missing, scan.Fixable)
	if scan.Unreadable > 0 {
		fmt.Fprintln(out, ui.ErrorStyle.Render(fmt.Sprintf("  unreadable: %d", scan.Unreadable)))
	}

	if cmd.Verbose {
		for _, path := range scan.MissingFiles {
			fmt.Fprintln(out, ui.DimStyle.Render("  - "+path))
		}
	}

	if scan.Missing == 0 && scan.Unreadable == 0 {
		fmt.Fprintln(out, ui.SuccessStyle.Render("✅ Every file has a capture tag"))
	}
	return nil
}
