package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/kurasim/internal/analysis"
	"github.com/san-kum/kurasim/internal/automation"
	"github.com/san-kum/kurasim/internal/config"
	"github.com/san-kum/kurasim/internal/experiment"
	"github.com/san-kum/kurasim/internal/export"
	"github.com/san-kum/kurasim/internal/integrators"
	"github.com/san-kum/kurasim/internal/optim"
	"github.com/san-kum/kurasim/internal/physics"
	"github.com/san-kum/kurasim/internal/viz"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// buildAndRun resolves the configuration, runs it with a progress bar on
// stderr and returns the experiment together with its outcome.
func buildAndRun(cmd *cobra.Command) (*experiment.Experiment, *experiment.Outcome, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	e, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return nil, nil, err
	}

	total := e.Grid.Len()
	lastPct := -1
	e.AddObserver(experiment.Progress{Total: total, Func: func(done, total int) {
		pct := done * 100 / total
		if pct/5 != lastPct/5 || done == total {
			lastPct = pct
			fmt.Fprintf(os.Stderr, "\r%s %3d%%", viz.ProgressBar(float64(done)/float64(total), 30), pct)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}})

	ctx, cancel := signalContext()
	defer cancel()
	out, err := e.Run(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr)
	}
	return e, out, err
}

func runSimulation(cmd *cobra.Command, args []string) error {
	e, out, err := buildAndRun(cmd)
	if out == nil {
		return err
	}
	if err != nil {
		logrus.Warnf("run incomplete, reporting %d finalized columns", e.Trajectory.Finalized()+1)
	}

	fmt.Println(renderSummary(e, out, viz.GetTheme(e.Config.Theme), plotWidth))

	if outFile != "" {
		if werr := writeRun(outFile, e, out); werr != nil {
			return werr
		}
		fmt.Printf("run written to %s\n", outFile)
	}
	if svgFile != "" {
		if werr := writeCircleSVG(svgFile, e, out); werr != nil {
			return werr
		}
		fmt.Printf("phase circle written to %s\n", svgFile)
	}
	return err
}

func writeRun(path string, e *experiment.Experiment, out *experiment.Outcome) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	data := export.NewRunData(e, out, wrap)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return export.WriteCSV(f, data)
	case ".json":
		return export.WriteJSON(f, data)
	default:
		return fmt.Errorf("unsupported output format %q (use .json or .csv)", filepath.Ext(path))
	}
}

func writeCircleSVG(path string, e *experiment.Experiment, out *experiment.Outcome) error {
	last := e.Trajectory.Finalized()
	phases, err := e.Trajectory.Column(last)
	if err != nil {
		return err
	}
	var drifting []bool
	if out.Chimera != nil {
		drifting = make([]bool, len(phases))
		for _, i := range out.Chimera.Drifting {
			drifting[i] = true
		}
	}
	svg := export.PhaseCircleSVG(phases, out.Order.Z[last], drifting, 400, export.DefaultStyle())
	return os.WriteFile(path, []byte(svg), 0644)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	e, out, err := buildAndRun(cmd)
	if err != nil {
		return err
	}
	styles := viz.NewStyles(viz.GetTheme(e.Config.Theme))

	fmt.Println(styles.Header.Render("analysis of " + runTitle(e)))

	if out.Chimera != nil {
		ch := out.Chimera
		fmt.Printf("mean velocity median %.4f, coherent %d, drifting %d", ch.Median, len(ch.Coherent), len(ch.Drifting))
		if ch.IsChimera() {
			fmt.Print(styles.Warning.Render("  chimera"))
		}
		fmt.Println()
		fmt.Println(viz.PlotSeries("mean velocity by oscillator", ch.MeanVelocity, plotWidth, 8))
	} else {
		fmt.Printf("no derivative trace from %s; chimera classification needs rk4\n", e.Method.Name())
	}

	topo, _ := physics.ParseTopology(e.Config.Topology)
	entropy, err := analysis.LocalEntropy(e.Trajectory, e.Config.Depth, topo)
	if err != nil {
		return err
	}
	rows, cols := entropy.Dims()
	mean := make([]float64, cols)
	col := make([]float64, rows)
	for c := range mean {
		mat.Col(col, c, entropy)
		mean[c] = stat.Mean(col, nil)
	}
	fmt.Println(viz.PlotSeries("mean local entropy (nats)", mean, plotWidth, 8))

	eff, err := analysis.EffectiveFrequency(e.Trajectory, e.Grid)
	if err != nil {
		return err
	}
	avg := analysis.MeanFrequency(e.Trajectory, e.Grid)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OSC\tNATURAL\tMEAN\tSPECTRAL")
	for _, i := range sampleIndices(e.Trajectory.N(), 10) {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.4f\n", i, e.Frequencies[i], avg[i], eff[i])
	}
	return w.Flush()
}

// sampleIndices picks at most k evenly spaced indices from [0, n).
func sampleIndices(n, k int) []int {
	if n <= k {
		k = n
	}
	out := make([]int, k)
	for j := range out {
		out[j] = j * n / k
	}
	return out
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	methods := args
	if len(methods) == 0 {
		methods = []string{"euler", "midpoint", "rk4"}
	}

	ctx, cancel := signalContext()
	defer cancel()
	outcomes, err := experiment.Compare(ctx, cfg, experiment.NewRegistry(), methods)
	if err != nil {
		return err
	}

	ref := outcomes[len(outcomes)-1].Result.Trajectory
	last := ref.Finalized()
	fmt.Printf("comparing integrators (N=%d, steps=%d, reference %s)\n\n", cfg.Oscillators, cfg.Time.Steps, outcomes[len(outcomes)-1].Result.Method)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tORDER\tFINAL R\tMEAN R\tMAX |Δθ|\tEVALS\tTIME")
	for _, o := range outcomes {
		m, _ := integrators.ByName(o.Result.Method)
		r, _ := o.Order.Final()
		dev := 0.0
		for i := 0; i < ref.N(); i++ {
			dev = math.Max(dev, math.Abs(o.Result.Trajectory.At(i, last)-ref.At(i, last)))
		}
		fmt.Fprintf(w, "%s\t%d\t%.6f\t%.6f\t%.2e\t%s\t%v\n",
			o.Result.Method, m.Order(), r, o.Order.MeanR(0), dev,
			humanize.Comma(int64(o.Result.Evaluations)), o.Result.Elapsed.Round(time.Microsecond))
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	e, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	points, err := e.Sweep(ctx, sweepParam, sweepMin, sweepMax, sweepPoints, sweepDiscard)
	if err != nil {
		return err
	}

	fmt.Println(viz.PlotSweep(points, sweepParam, plotWidth, 12))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN R\tFINAL R\n", strings.ToUpper(sweepParam))
	for _, p := range points {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\n", p.Param, p.MeanR, p.FinalR)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if v, ok := analysis.CriticalValue(points, 0.5); ok {
		fmt.Printf("\nmean r first reaches 0.5 at %s = %.4f\n", sweepParam, v)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	e, out, err := buildAndRun(cmd)
	if out == nil {
		return err
	}
	var velocity []float64
	if out.Chimera != nil {
		velocity = out.Chimera.MeanVelocity
	}
	return viz.RunReplay(viz.NewReplay(runTitle(e), e.Trajectory, e.Grid, velocity, viz.GetTheme(e.Config.Theme)))
}

func benchIntegrators(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("benchmarking %s model, %d grid points per run\n\n", base.Model, benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tINTEGRATOR\tEVALS\tTIME\tOSC-STEPS/SEC")

	for _, n := range benchSizes {
		for _, name := range []string{"euler", "midpoint", "rk4"} {
			cfg := base.Clone()
			cfg.Oscillators = n
			cfg.Depth = min(max(base.Depth, 1), n-1)
			cfg.Integrator = name
			cfg.Time.Steps = benchSteps
			cfg.InitialPhases = nil
			cfg.Frequencies.Values = nil

			out, err := experiment.Execute(ctx, cfg, reg)
			if err != nil {
				return err
			}
			rate := float64(n*out.Result.Steps) / out.Result.Elapsed.Seconds()
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\n",
				humanize.Comma(int64(n)), name, humanize.Comma(int64(out.Result.Evaluations)),
				out.Result.Elapsed.Round(time.Microsecond), humanize.SIWithDigits(rate, 2, ""))
		}
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	if showPreset != "" {
		cfg := config.GetPreset(showPreset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", showPreset, config.ListPresets())
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tMODEL\tN\tM\tKAPPA\tTOPOLOGY")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%g\t%s\n", name, p.Model, p.Oscillators, p.Depth, p.Kappa, p.Topology)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("configuration written to %s\n", args[0])
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunScenario(ctx, sc, experiment.NewRegistry())
	fmt.Printf("scenario %s: %d/%d steps\n\n", sc.Name, len(results), len(sc.Steps))
	for _, res := range results {
		switch {
		case res.Sweep != nil:
			fmt.Printf("%s: sweep over %d values\n", res.Name, len(res.Sweep))
			fmt.Println(viz.PlotSweep(res.Sweep, "param", 50, 8))
		case res.Ensemble != nil:
			s := res.Ensemble
			fmt.Printf("%s: %d trials, final r %.4f ± %.4f [%.4f, %.4f], chimeras %d\n",
				res.Name, s.Trials, s.MeanR, s.StdR, s.MinR, s.MaxR, s.Chimeras)
		default:
			for _, o := range res.Outcomes {
				r, _ := o.Order.Final()
				fmt.Printf("%s: run %s, %s steps, final r %.4f %s\n",
					res.Name, o.ID[:8], humanize.Comma(int64(o.Result.Steps)), r, viz.Sparkline(o.Order.R, 30))
			}
		}
	}
	return err
}

// parseRange reads name=min:max:points.
func parseRange(spec string) (string, []float64, error) {
	name, rest, ok := strings.Cut(spec, "=")
	parts := strings.Split(rest, ":")
	if !ok || len(parts) != 3 {
		return "", nil, fmt.Errorf("range %q: want name=min:max:points", spec)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("range %q: %w", spec, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("range %q: %w", spec, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("range %q: points must be a positive integer", spec)
	}
	if n == 1 {
		return name, []float64{lo}, nil
	}
	values := make([]float64, n)
	floats.Span(values, lo, hi)
	if name == "depth" {
		for i := range values {
			values[i] = math.Round(values[i])
		}
	}
	return name, values, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(searchRanges))
	ranges := make([][]float64, 0, len(searchRanges))
	for _, spec := range searchRanges {
		name, values, err := parseRange(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	fmt.Printf("searching %d points for mean r = %.3f\n\n", g.Size(), searchTarget)
	best, all, err := g.Search(ctx, cfg, experiment.NewRegistry(), optim.TargetR(searchTarget))
	if err != nil {
		return err
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Score < all[j].Score })
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t|MEAN R - TARGET|\n", strings.ToUpper(strings.Join(names, "\t")))
	for _, ev := range all[:min(len(all), 10)] {
		cells := make([]string, len(names))
		for i, name := range names {
			cells[i] = strconv.FormatFloat(ev.Params[name], 'g', 6, 64)
		}
		score := fmt.Sprintf("%.4f", ev.Score)
		if ev.Err != nil {
			score = "error: " + ev.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\n", strings.Join(cells, "\t"), score)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest: %v (score %.4f)\n", best.Params, best.Score)
	return nil
}
