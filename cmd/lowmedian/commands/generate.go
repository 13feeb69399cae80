package commands

import (
	"fmt"
	"io"
	"strings"

	"lowmedian/internal/dataset"
	"lowmedian/internal/generate"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newGenerateCommand(root *options, stdout io.Writer) *cobra.Command {
	o := generate.DefaultOptions()
	var (
		output string
		format string
		clip   []float64
	)

	cmd := &cobra.Command{
		Use:   "generate <kind>",
		Short: "Write a synthetic dataset (" + strings.Join(generate.Kinds, ", ") + ")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			kind := args[0]
			if !generate.IsKind(kind) {
				return fmt.Errorf("unknown distribution %q (want one of %s)", kind, strings.Join(generate.Kinds, ", "))
			}
			if len(clip) != 0 {
				if len(clip) != 2 || clip[0] > clip[1] {
					return fmt.Errorf("--clip wants two values lo,hi with lo <= hi")
				}
				o.Clip = &[2]float64{clip[0], clip[1]}
			}
			f, err := dataset.ParseFormat(format)
			if err != nil {
				return err
			}

			w := stdout
			if output != "" && output != "-" {
				f = f.Resolve(output)
				file, cerr := root.fs.Create(output)
				if cerr != nil {
					return fmt.Errorf("create %s: %w", output, cerr)
				}
				defer func() {
					if cerr := file.Close(); cerr != nil && err == nil {
						err = fmt.Errorf("close %s: %w", output, cerr)
					}
				}()
				w = file
			} else if f == dataset.FormatAuto {
				f = dataset.FormatText
			}

			if err := generate.Write(w, kind, o, f); err != nil {
				return fmt.Errorf("write %s dataset: %w", kind, err)
			}
			log.Info().
				Str("kind", kind).
				Int("values", o.Total(kind)).
				Str("format", string(f)).
				Str("output", output).
				Msg("Dataset generated")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&o.N, "ndata", "n", o.N, "number of values")
	flags.IntVar(&o.N2, "ndata2", 0, "size of the second mode for bimodal (defaults to ndata)")
	flags.Float64Var(&o.Mu, "mu", o.Mu, "location")
	flags.Float64Var(&o.Sigma, "sigma", o.Sigma, "scale")
	flags.Float64Var(&o.Mu2, "mu2", o.Mu2, "location of the second mode")
	flags.Float64Var(&o.Sigma2, "sigma2", o.Sigma2, "scale of the second mode")
	flags.Float64Var(&o.Low, "low", o.Low, "lower bound for flat")
	flags.Float64Var(&o.High, "high", 0, "upper bound for flat and planck (0 selects the default)")
	flags.Float64SliceVar(&clip, "clip", nil, "clip values to lo,hi")
	flags.Uint64Var(&o.Seed, "seed", 1, "random seed")
	flags.StringVarP(&output, "output", "o", "", "output file, stdout when empty or -")
	flags.StringVarP(&format, "format", "f", "auto", "output format: text, binary or auto")
	return cmd
}
