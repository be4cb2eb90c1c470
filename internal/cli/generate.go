package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"barcode-batcher/internal/generator"
	"barcode-batcher/internal/models"
	"barcode-batcher/internal/render"
	"barcode-batcher/internal/services"
	"barcode-batcher/internal/shutdown"
)

type generateOptions struct {
	countA    int
	countB    int
	symbology string
	out       string
	prefix    string
	pdf       bool
	seed      uint64
}

func newGenerateCmd(env *environment) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a batch without the GUI and save every image",
		Example: `  # 10 barcodes with digits 1-5 and 5 with digits 6-9 into ./out
  barcode-batcher generate --count-a 10 --count-b 5 --out ./out

  # reproducible QR batch plus a PDF contact sheet
  barcode-batcher generate --count-a 8 --symbology qr --seed 42 --pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("symbology") {
				opts.symbology = env.cfg.Symbology().String()
			}
			if !cmd.Flags().Changed("prefix") {
				opts.prefix = env.cfg.Export.Prefix
			}
			if !cmd.Flags().Changed("out") && env.cfg.Export.Directory != "" {
				opts.out = env.cfg.Export.Directory
			}
			return runGenerate(cmd, env, opts, cmd.Flags().Changed("seed"))
		},
	}

	cmd.Flags().IntVar(&opts.countA, "count-a", 0, "barcodes whose digits come from range A")
	cmd.Flags().IntVar(&opts.countB, "count-b", 0, "barcodes whose digits come from range B")
	cmd.Flags().StringVar(&opts.symbology, "symbology", "code128", "code128, code39 or qr")
	cmd.Flags().StringVarP(&opts.out, "out", "o", ".", "directory for the PNG files (created if missing)")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "barcode_", "file name prefix")
	cmd.Flags().BoolVar(&opts.pdf, "pdf", false, "also write a PDF contact sheet")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for reproducible batches")

	return cmd
}

func runGenerate(cmd *cobra.Command, env *environment, opts generateOptions, seeded bool) error {
	symbology, err := models.ParseSymbology(opts.symbology)
	if err != nil {
		return err
	}
	if err := env.cfg.Generation.CheckCount("--count-a", opts.countA); err != nil {
		return err
	}
	if err := env.cfg.Generation.CheckCount("--count-b", opts.countB); err != nil {
		return err
	}

	req := models.GenerationRequest{
		CountA:         opts.countA,
		CountB:         opts.countB,
		RangeA:         env.cfg.Generation.RangeA.DigitRange(),
		RangeB:         env.cfg.Generation.RangeB.DigitRange(),
		Symbology:      symbology,
		ReferenceCodes: env.codes,
		Directory:      opts.out,
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return &models.IOFailure{Path: opts.out, Cause: err}
	}

	renderer := render.NewBarcodeRenderer(render.Options{
		Width:   env.cfg.Render.Width,
		Height:  env.cfg.Render.Height,
		Caption: env.cfg.Render.Caption,
	})
	genOpts := []generator.Option{generator.WithLogger(env.log)}
	if seeded {
		genOpts = append(genOpts, generator.WithSeed(opts.seed))
	}
	gen := generator.New(renderer, genOpts...)

	manager := shutdown.NewManager(env.log)
	manager.Listen(nil)
	defer manager.Shutdown()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	manager.Register("generate", shutdown.Func(cancel))

	batch, err := generateWithProgress(ctx, gen, req, newProgressPrinter(cmd.ErrOrStderr(), fancyOutput(cmd.ErrOrStderr())))
	if err != nil {
		return err
	}

	repo := models.NewBarcodeRepository()
	repo.SetBatch(batch)
	export := services.NewExportService(repo, env.log)

	paths, err := export.ExportAll(opts.out, opts.prefix)
	if err != nil {
		return err
	}

	var sheet string
	if opts.pdf {
		sheet = filepath.Join(opts.out, opts.prefix+"sheet.pdf")
		if err := export.ExportSheet(sheet, false); err != nil {
			return err
		}
	}

	printSummary(cmd.OutOrStdout(), batch, paths, sheet)
	return nil
}

// generateWithProgress runs the generator and the progress printer side by side
func generateWithProgress(ctx context.Context, gen *generator.Generator, req models.GenerationRequest, printer *progressPrinter) (*models.Batch, error) {
	job := gen.Start(ctx, req)

	var batch *models.Batch
	g := new(errgroup.Group)
	g.Go(func() error {
		for percent := range job.Progress() {
			printer.Update(percent)
		}
		printer.Finish()
		return nil
	})
	g.Go(func() error {
		result := <-job.Done()
		batch = result.Batch
		return result.Err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batch, nil
}

// progressPrinter draws a bubbles progress bar on terminals and plain
// percentage lines everywhere else
type progressPrinter struct {
	out   io.Writer
	fancy bool
	bar   progress.Model
	last  int
}

func newProgressPrinter(out io.Writer, fancy bool) *progressPrinter {
	return &progressPrinter{
		out:   out,
		fancy: fancy,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
		),
		last: -1,
	}
}

// fancyOutput reports whether w is a terminal that can redraw a progress bar in place
func fancyOutput(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

func (p *progressPrinter) Update(percent int) {
	if percent == p.last {
		return
	}
	p.last = percent
	if p.fancy {
		fmt.Fprintf(p.out, "\r%s", p.bar.ViewAs(float64(percent)/100))
		return
	}
	fmt.Fprintf(p.out, "progress: %d%%\n", percent)
}

func (p *progressPrinter) Finish() {
	if p.fancy && p.last >= 0 {
		fmt.Fprintln(p.out)
	}
}

var (
	summaryTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	summaryLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func printSummary(w io.Writer, batch *models.Batch, paths []string, sheet string) {
	fmt.Fprintln(w, summaryTitle.Render(fmt.Sprintf("Generated %d %s barcodes", len(batch.Records), batch.Symbology)))
	fmt.Fprintf(w, "%s %s\n", summaryLabel.Render("batch:"), batch.ID)
	fmt.Fprintf(w, "%s %s\n", summaryLabel.Render("took: "), batch.Duration().Round(time.Millisecond))
	for _, path := range paths {
		fmt.Fprintln(w, path)
	}
	if sheet != "" {
		fmt.Fprintf(w, "%s %s\n", summaryLabel.Render("sheet:"), sheet)
	}
}
