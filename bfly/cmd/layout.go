package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/butterfly/config"
	"github.com/sarchlab/butterfly/noc/addressing"
	"github.com/sarchlab/butterfly/noc/butterfly"
)

var layoutBinding string

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the address partition and the crossbar binding.",
	Run: func(_ *cobra.Command, _ []string) {
		cfg := loadConfig()

		strategy, err := butterfly.ParseBindingStrategy(layoutBinding)
		if err != nil {
			atexit.Fatalf("Error: %v", err)
		}

		layout, err := addressing.PartitionConfig(cfg)
		if err != nil {
			atexit.Fatalf("Error partitioning memory: %v", err)
		}

		printLayout(layout, strategy, int(cfg.NumCrossbarNodes()))
	},
}

func init() {
	rootCmd.AddCommand(layoutCmd)
	layoutCmd.Flags().StringVar(&layoutBinding, "binding", "fixed",
		"How crossbar nodes bind to linear switches, fixed or staggered.")
}

func printLayout(
	layout *addressing.Layout,
	strategy butterfly.BindingStrategy,
	numCrossbars int,
) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "memory: %d bytes, %d switches, %d channels per switch\n\n",
		layout.MemorySize(), layout.NumSwitches(), layout.NumChannels())

	fmt.Fprintln(w, "switch\trange\tchannels")

	for i := 0; i < layout.NumSwitches(); i++ {
		fmt.Fprintf(w, "%d\t%s\t", i, layout.SwitchRange(i))

		for j, r := range layout.ChannelRanges(i) {
			if j > 0 {
				fmt.Fprint(w, " ")
			}

			fmt.Fprint(w, r)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\ncrossbar (%s)\tupstream switches\n", strategy)

	for k := 0; k < numCrossbars; k++ {
		fmt.Fprintf(w, "%d\t", k)

		for j := 0; j < config.CrossbarRadix; j++ {
			if j > 0 {
				fmt.Fprint(w, " ")
			}

			fmt.Fprint(w, strategy.Upstream(k, j, layout.NumSwitches()))
		}

		fmt.Fprintln(w)
	}
}
