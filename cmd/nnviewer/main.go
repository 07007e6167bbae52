package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonxlegasa/nn-viewer/internal/config"
	"github.com/jonxlegasa/nn-viewer/internal/export"
	"github.com/jonxlegasa/nn-viewer/internal/provider"
	"github.com/jonxlegasa/nn-viewer/internal/render"
	"github.com/jonxlegasa/nn-viewer/internal/session"
	"github.com/jonxlegasa/nn-viewer/internal/snapshot"
	"github.com/jonxlegasa/nn-viewer/internal/theme"
	"github.com/jonxlegasa/nn-viewer/internal/tui"
)

var (
	configFile string
	lossFile   string
	themeName  string
	xMin       float64
	xMax       float64
	points     int
	iteration  int
	trueCoeffs string
	slotID     string
	outFile    string
	svgWidth   int
	svgHeight  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nnviewer",
		Short: "interactive viewer for PINN training results",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile == "" {
				return cmd.Help()
			}
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			return runSession(cfg)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "session config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", config.DefaultTheme, "color theme")
	rootCmd.PersistentFlags().Float64Var(&xMin, "x-min", config.DefaultXMin, "domain minimum")
	rootCmd.PersistentFlags().Float64Var(&xMax, "x-max", config.DefaultXMax, "domain maximum")
	rootCmd.PersistentFlags().IntVar(&points, "points", config.DefaultPoints, "evaluation sample count")

	viewCmd := &cobra.Command{
		Use:   "view [snapshots.json]",
		Short: "view a single training run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(streamConfig(args[0]))
		},
	}
	viewCmd.Flags().StringVar(&lossFile, "loss", "", "loss csv file")
	viewCmd.Flags().IntVar(&iteration, "iteration", config.DefaultIteration, "initial iteration")

	sweepCmd := &cobra.Command{
		Use:   "sweep [table.json]",
		Short: "view a hyperparameter sweep",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sweepConfig(args[0])
			if err != nil {
				return err
			}
			return runSession(cfg)
		},
	}
	sweepCmd.Flags().StringVar(&lossFile, "loss", "", "per-configuration loss json file")
	sweepCmd.Flags().StringVar(&trueCoeffs, "true-coeffs", "", "comma-separated reference coefficients")

	plotCmd := &cobra.Command{
		Use:   "plot [snapshots.json]",
		Short: "print one plot as ascii without entering the TUI",
		Args:  cobra.ExactArgs(1),
		RunE:  plotStatic,
	}
	plotCmd.Flags().StringVar(&lossFile, "loss", "", "loss csv file")
	plotCmd.Flags().StringVar(&slotID, "slot", "function", "plot slot id")
	plotCmd.Flags().IntVar(&iteration, "iteration", config.DefaultIteration, "iteration to show")

	exportCmd := &cobra.Command{
		Use:   "export-svg [snapshots.json]",
		Short: "export one plot slot to an SVG file",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportCmd.Flags().StringVar(&lossFile, "loss", "", "loss csv file")
	exportCmd.Flags().StringVar(&slotID, "slot", "function", "plot slot id")
	exportCmd.Flags().IntVar(&iteration, "iteration", config.DefaultIteration, "iteration to show")
	exportCmd.Flags().StringVar(&outFile, "out", "plot.svg", "output file")
	exportCmd.Flags().IntVar(&svgWidth, "width", 800, "svg width")
	exportCmd.Flags().IntVar(&svgHeight, "height", 500, "svg height")

	inspectCmd := &cobra.Command{
		Use:   "inspect [snapshots.json]",
		Short: "summarize loaded snapshots",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectRun,
	}
	inspectCmd.Flags().StringVar(&lossFile, "loss", "", "loss csv file")

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "list available themes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range theme.Names() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(viewCmd, sweepCmd, plotCmd, exportCmd, inspectCmd, themesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func streamConfig(snapshots string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Mode = "stream"
	cfg.Snapshots = snapshots
	cfg.Loss = lossFile
	cfg.XRange = config.Range{Min: xMin, Max: xMax}
	cfg.Points = points
	cfg.Theme = themeName
	cfg.Initial.Iteration = iteration
	return cfg
}

func sweepConfig(table string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Mode = "sweep"
	cfg.Table = table
	cfg.TableLoss = lossFile
	cfg.XRange = config.Range{Min: xMin, Max: xMax}
	cfg.Points = points
	cfg.Theme = themeName
	if trueCoeffs == "" {
		return nil, fmt.Errorf("sweep requires --true-coeffs")
	}
	for _, part := range strings.Split(trueCoeffs, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("bad coefficient %q: %w", part, err)
		}
		cfg.TrueCoefficients = append(cfg.TrueCoefficients, v)
	}
	return cfg, nil
}

func runSession(cfg *config.Config) error {
	sess, err := session.New(cfg)
	if err != nil {
		return err
	}
	m := tui.New(sess.Title, sess.State, sess.Coordinator, sess.Backend, cfg.Theme, sess.Note)
	return tui.Run(m)
}

// plotStatic refreshes once at the requested iteration and prints the chosen
// slot to stdout.
func plotStatic(cmd *cobra.Command, args []string) error {
	sess, slot, err := streamSlot(args[0])
	if err != nil {
		return err
	}
	block := sess.Backend.Render(*slot)
	if block == "" {
		return fmt.Errorf("slot %q has nothing to show at iteration %d", slotID, iteration)
	}
	fmt.Println(block)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	sess, slot, err := streamSlot(args[0])
	if err != nil {
		return err
	}
	bundle, err := sess.Provider.Get(slot.DataKey, sess.State)
	if err != nil {
		return err
	}
	svg := export.SlotToSVG(*slot, bundle, theme.Get(themeName), svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("slot %q has nothing to export", slotID)
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

// streamSlot builds a stream session, positions the iteration slider, and
// resolves the requested slot id.
func streamSlot(snapshots string) (*session.Session, *render.Slot, error) {
	sess, err := session.NewStream(streamConfig(snapshots))
	if err != nil {
		return nil, nil, err
	}
	if _, err := sess.State.SetSlider(provider.SliderIteration, float64(iteration)); err != nil {
		return nil, nil, err
	}
	if err := sess.Coordinator.Refresh(); err != nil {
		return nil, nil, err
	}
	for _, slot := range sess.Coordinator.Slots() {
		if slot.ID == slotID {
			return sess, &slot, nil
		}
	}
	return nil, nil, fmt.Errorf("unknown slot %q", slotID)
}

func inspectRun(cmd *cobra.Command, args []string) error {
	sess, err := session.NewStream(streamConfig(args[0]))
	if err != nil {
		return err
	}
	prov, ok := sess.Provider.(*provider.StreamProvider)
	if !ok {
		return fmt.Errorf("inspect supports stream data only")
	}
	store := prov.Store()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "snapshots\t%d\n", store.Len())
	fmt.Fprintf(w, "iterations\t%d .. %d (step %d)\n", store.MinIteration(), store.MaxIteration(), store.Step())
	fmt.Fprintf(w, "loss rows\t%d\n", store.Loss().Len())
	channels := []string{}
	for _, ch := range snapshot.Channels {
		if store.Loss().Has(ch) {
			channels = append(channels, ch)
		}
	}
	fmt.Fprintf(w, "loss channels\t%s\n", strings.Join(channels, ", "))
	if err := prov.Degenerate(); err != nil {
		fmt.Fprintf(w, "analytical\tunavailable (%v)\n", err)
	} else {
		fmt.Fprintf(w, "analytical\tavailable\n")
	}
	return w.Flush()
}
