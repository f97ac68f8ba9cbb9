package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lepinkainen/takeoutdate/config"
	"github.com/lepinkainen/takeoutdate/exiftool"
	"github.com/lepinkainen/takeoutdate/logging"
	"github.com/lepinkainen/takeoutdate/media"
	"github.com/lepinkainen/takeoutdate/report"
	"github.com/lepinkainen/takeoutdate/sidecar"
	"github.com/lepinkainen/takeoutdate/types"
	"github.com/lepinkainen/takeoutdate/ui"
	"github.com/lepinkainen/takeoutdate/utils"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
)

// FixCmd restores capture times for every media file under a directory.
type FixCmd struct {
	Directory  string `arg:"" name:"directory" help:"Root of the extracted export" type:"path"`
	Verbose    bool   `short:"v" help:"Log every corrective action"`
	Workers    *int   `help:"Number of files processed at once (0 = auto)"`
	DryRun     bool   `help:"Show what would be changed without writing anything"`
	TUI        bool   `name:"tui" help:"Show an interactive progress view"`
	KeepBackup bool   `help:"Keep exiftool's _original backup files"`
	Report     string `help:"Write a JSON run report to this file" type:"path"`
	Config     string `help:"Config file (default: ./takeoutdate.yaml, ~/.config/takeoutdate/takeoutdate.yaml)" type:"path"`

	// fs is replaced in tests.
	fs afero.Fs
}

func (cmd *FixCmd) filesystem() afero.Fs {
	if cmd.fs == nil {
		return afero.NewOsFs()
	}
	return cmd.fs
}

func (cmd *FixCmd) Run(appCtx *types.AppContext) error {
	version := appCtx.VersionOrDefault()
	out := appCtx.Stdout()
	fsys := cmd.filesystem()

	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}
	if cmd.Workers != nil {
		cfg.Workers = *cmd.Workers
	}
	if cmd.KeepBackup {
		cfg.KeepBackup = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	loc, _ := cfg.Location()

	// Fatal conditions are reported before anything else happens. Discovery
	// only reads the tree, so an empty export is reported even when exiftool
	// is missing.
	root, err := media.CheckRoot(fsys, cmd.Directory)
	if err != nil {
		return err
	}
	locator := sidecar.NewLocator(fsys)
	records, err := media.NewDiscoverer(fsys, locator, cfg.Extensions()).Discover(root)
	if err != nil {
		return err
	}
	if _, err := utils.ValidateExiftoolDependency(cfg.ExiftoolPath); err != nil {
		return err
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = utils.SuggestedWorkers(root)
	}

	useTUI := cmd.TUI && isTerminal(out)

	// The TUI owns the screen; log lines are held back until it exits.
	var logBuf bytes.Buffer
	logOut := appCtx.Stderr()
	if useTUI {
		logOut = &logBuf
	}
	log := logging.New(logging.Config{Verbose: cmd.Verbose, Output: logOut})
	defer func() { _ = log.Sync() }()

	pool := exiftool.Open(exiftool.Options{BinaryPath: cfg.ExiftoolPath, Instances: workers, Location: loc})
	defer func() {
		if err := pool.Close(); err != nil {
			log.Warnw("failed to stop exiftool", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintln(out, ui.HeaderStyle.Render(fmt.Sprintf("takeoutdate %s", version)))
	if cmd.DryRun {
		fmt.Fprintln(out, ui.ProcessingStyle.Render("🔍 DRY RUN MODE - No files will be modified"))
	}
	log.Debugw("starting", "root", root, "workers", workers, "config", cfg.File, "timezone", loc.String())

	run := func(ctx context.Context, obs media.Observer) (*media.Result, error) {
		discoverer := media.NewDiscoverer(fsys, locator, cfg.Extensions())
		extractor := media.NewExtractor(fsys, pool, log)
		reconciler := media.NewReconciler(fsys, pool, log, media.ReconcilerOptions{DryRun: cmd.DryRun, KeepBackup: cfg.KeepBackup})
		orch := media.NewOrchestrator(discoverer, extractor, reconciler, media.OrchestratorOptions{Workers: workers, Observer: obs, Log: log})
		return orch.RunDiscovered(ctx, root, records)
	}

	var res *media.Result
	switch {
	case useTUI:
		res, err = cmd.runWithTUI(ctx, root, version, out, run)
		_, _ = io.Copy(appCtx.Stderr(), &logBuf)
	case !cmd.Verbose && isTerminal(appCtx.Stderr()):
		bar := ui.NewBarObserver(appCtx.Stderr(), "Fixing dates")
		res, err = run(ctx, bar)
		bar.Finish()
	default:
		res, err = run(ctx, nil)
	}

	if res != nil {
		fmt.Fprint(out, "\n"+ui.RenderSummary(res, cmd.DryRun))
		if cmd.Report != "" {
			if werr := report.Write(fsys, cmd.Report, report.FromResult(res, version, cmd.DryRun)); werr != nil {
				log.Errorw("failed to write report", "path", cmd.Report, "error", werr)
			} else {
				fmt.Fprintln(out, ui.InfoStyle.Render(fmt.Sprintf("Report written to %s", cmd.Report)))
			}
		}
	}
	return err
}

// runWithTUI runs the batch in the background while the progress view owns
// the terminal. Quitting the view stops new files from being started.
func (cmd *FixCmd) runWithTUI(ctx context.Context, root, version string, out io.Writer, run func(context.Context, media.Observer) (*media.Result, error)) (*media.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(ui.NewProgressModel(root, version), tea.WithOutput(out), tea.WithContext(ctx))
	obs := ui.NewTUIObserver(p)

	var (
		res    *media.Result
		runErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		res, runErr = run(ctx, obs)
		p.Send(ui.RunFinishedMsg{Err: runErr})
	}()

	final, err := p.Run()
	if m, ok := final.(ui.ProgressModel); !ok || m.Quitting() || err != nil {
		cancel()
	}
	<-done

	if runErr != nil {
		return res, runErr
	}
	if err != nil && ctx.Err() == nil {
		return res, fmt.Errorf("progress view failed: %w", err)
	}
	return res, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
