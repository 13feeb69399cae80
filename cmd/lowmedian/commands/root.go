package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"lowmedian/internal/config"
	"lowmedian/internal/dataset"
	"lowmedian/internal/logging"
	"lowmedian/internal/median"
	"lowmedian/internal/metrics"
	"lowmedian/internal/report"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// options collects the flags shared by the subcommands.
type options struct {
	verbose    bool
	noLogFile  bool
	configFile string

	format   string
	showMean bool

	maxdiff       float64
	factor        float64
	decrease      float64
	chunks        int
	maxIterations int
	metricsFile   string

	cfg *config.AppConfig
	fs  afero.Fs
}

// NewRootCommand builds the CLI. stdout receives reports; logs go to stderr.
func NewRootCommand(fs afero.Fs, stdout io.Writer) *cobra.Command {
	opts := &options{fs: fs}

	rootCmd := &cobra.Command{
		Use:   "lowmedian [ndata] <file>",
		Short: "lowmedian computes the median of large datasets in constant extra memory",
		Long: `Computes the median of a file of numbers (one per line, or raw little-endian
float64 for .bin/.f64 files) by iterative partition refinement: the data is never
sorted or copied, only scanned. Use -c to scan in parallel segments.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ndata, path := 0, args[len(args)-1]
			if len(args) == 2 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("ndata must be a positive integer, got %q", args[0])
				}
				ndata = n
			}
			return opts.runCompute(stdout, path, ndata)
		},
	}
	rootCmd.SetOut(stdout)

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging (per-iteration solver trace)")
	pf.BoolVar(&opts.noLogFile, "no-log-file", false, "log to stderr only")
	pf.StringVar(&opts.configFile, "config", "", "optional TOML configuration file")

	pf.Float64Var(&opts.maxdiff, "maxdiff", median.DefaultMaxDiff, "imbalance threshold in elements; negative is a fraction of the dataset length")
	pf.Float64Var(&opts.factor, "factor", median.DefaultFactor, "initial step scaling factor")
	pf.Float64Var(&opts.decrease, "decrease", median.DefaultDecrease, "minimum shrink ratio of the step factor on overshoot")
	pf.IntVarP(&opts.chunks, "chunks", "c", median.DefaultChunks, "segments counted concurrently, 0 for one per CPU")
	pf.IntVar(&opts.maxIterations, "max-iterations", 0, "cap on counting passes, 0 derives one from maxdiff")
	pf.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the solve")

	f := rootCmd.Flags()
	f.StringVarP(&opts.format, "format", "f", "auto", "input format: text, binary or auto")
	f.BoolVar(&opts.showMean, "mean", false, "also print the arithmetic mean")

	rootCmd.AddCommand(newGenerateCommand(opts, stdout))
	rootCmd.AddCommand(newServeCommand(opts))
	return rootCmd
}

// Execute runs the CLI against the OS filesystem.
func Execute() error {
	return NewRootCommand(afero.NewOsFs(), os.Stdout).Execute()
}

func (o *options) setup(cmd *cobra.Command) error {
	// Console only until the configuration names the log directory.
	if err := logging.Init(logging.Options{Verbose: o.verbose, NoFile: true}); err != nil {
		return err
	}

	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	if !o.noLogFile {
		if err := logging.Init(logging.Options{Verbose: o.verbose, LogDir: cfg.LogDir}); err != nil {
			return err
		}
	}

	// Flags given explicitly win over .env, environment and file.
	flags := cmd.Flags()
	if flags.Changed("maxdiff") {
		cfg.Solver.MaxDiff = o.maxdiff
	}
	if flags.Changed("factor") {
		cfg.Solver.Factor = o.factor
	}
	if flags.Changed("decrease") {
		cfg.Solver.Decrease = o.decrease
	}
	if flags.Changed("chunks") {
		cfg.Solver.Chunks = o.chunks
	}
	if flags.Changed("max-iterations") {
		cfg.Solver.MaxIterations = o.maxIterations
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = o.metricsFile
	}
	o.cfg = cfg

	log.Debug().
		Str("version", Version).
		Str("commit", Commit).
		Str("buildDate", BuildDate).
		Msg("lowmedian starting")
	return nil
}

func (o *options) runCompute(stdout io.Writer, path string, ndata int) error {
	format, err := dataset.ParseFormat(o.format)
	if err != nil {
		return err
	}

	ds, err := dataset.Load(o.fs, path, format, ndata, log.Logger)
	if err != nil {
		return err
	}
	defer ds.Close()

	if ndata > 0 && len(ds.Values) < ndata {
		log.Warn().Int("requested", ndata).Int("read", len(ds.Values)).Msg("File holds fewer values than requested")
	}
	log.Info().
		Str("path", path).
		Str("format", string(ds.Format)).
		Int("values", len(ds.Values)).
		Int("skipped", ds.Skipped).
		Msg("Dataset loaded")

	params := o.cfg.Solver.Params(len(ds.Values))
	recorder := metrics.NewRecorder()

	start := time.Now()
	res, err := median.Solve(ds.Values, params)
	elapsed := time.Since(start)
	recorder.Observe(len(ds.Values), res, elapsed, err)

	if o.cfg.MetricsFile != "" {
		if werr := recorder.WriteTextfile(o.cfg.MetricsFile); werr != nil {
			log.Warn().Err(werr).Msg("Failed to write metrics")
		}
	}
	if err != nil {
		return err
	}

	return report.Write(stdout, report.Report{
		Values:     len(ds.Values),
		Skipped:    ds.Skipped,
		InputBytes: ds.Bytes,
		Median:     res.Median,
		Mean:       res.Mean,
		ShowMean:   o.showMean,
		Iterations: res.Iterations,
		Chunks:     params.Chunks,
		Elapsed:    elapsed,
	})
}
