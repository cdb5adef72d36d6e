package main

import (
	goflag "flag"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"solidcast/config"
)

func newRootCommand(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solidcast",
		Short: "Ray/solid intersection and terrain camera tools",
		Long: `solidcast intersects rays with analytic solids, simulates a
terrain-following first-person camera, and writes debug glTF scenes.

Most commands read a YAML scenario (--scenario); flags override it.`,
		SilenceUsage: true,
	}
	cmd.SetOut(out)
	cmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)
	cmd.PersistentFlags().StringP("scenario", "f", "", "Path to a YAML scenario file")
	cmd.PersistentFlags().StringP("output", "o", "text", "Output format: text or yaml")

	cmd.AddCommand(
		newIntersectCommand(),
		newSimulateCommand(),
		newExportCommand(),
		newPickCommand(),
	)
	return cmd
}

// loadScenario reads --scenario, or starts from defaults when it is unset,
// and raises klog verbosity to the scenario's unless -v was given.
func loadScenario(flags *pflag.FlagSet) (*config.Scenario, error) {
	path, err := flags.GetString("scenario")
	if err != nil {
		return nil, err
	}
	var s *config.Scenario
	if path == "" {
		s, err = config.Parse(nil)
	} else {
		s, err = config.Load(path)
	}
	if err != nil {
		return nil, err
	}

	if v := flags.Lookup("v"); v != nil && !v.Changed && s.Verbosity > 0 {
		if err := v.Value.Set(strconv.Itoa(s.Verbosity)); err != nil {
			return nil, fmt.Errorf("set verbosity: %w", err)
		}
	}
	klog.V(2).InfoS("Loaded scenario", "path", path, "solid", s.Solid.Kind, "rays", len(s.Rays))
	return s, nil
}

// printer writes results either as readable lines or as one YAML document.
type printer struct {
	out    io.Writer
	format string
}

func newPrinter(cmd *cobra.Command) (printer, error) {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return printer{}, err
	}
	switch format {
	case "text", "yaml":
	default:
		return printer{}, fmt.Errorf("unknown output format %q", format)
	}
	return printer{out: cmd.OutOrStdout(), format: format}, nil
}

func (p printer) yaml() bool { return p.format == "yaml" }

func (p printer) document(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = p.out.Write(data)
	return err
}
