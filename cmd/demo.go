package cmd

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kdschlosser/angry-debugger/debugger"
	"github.com/kdschlosser/angry-debugger/debugger/goid"
)

var (
	// CLI flags for the demo; each overrides the config only when set
	demoLevel      string  // Trace level for the root logger
	demoThreads    int     // Worker goroutines in the concurrent pass
	demoSeed       int64   // Seed for the random sleeps
	demoDelayScale float64 // Multiplier applied to every sleep
	demoFormat     string  // Record format (text, json)
	demoColor      string  // Colour mode (auto, always, never)
	demoBackend    string  // Sink backend (logrus, zap)
	demoMetrics    bool    // Print tracer metrics after the run
)

// demoCmd runs the walkthrough program against the configured sinks
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Trace a sample program: functions, properties, an attribute, methods and logging runs",
	Run: func(cmd *cobra.Command, args []string) {
		defer debugger.RecoverPanics()

		cfg, err := loadConfig(configPath)
		if err != nil {
			logrus.Fatalf("Failed to load config: %v", err)
		}
		applyDemoFlags(cmd, &cfg)
		if cfg.Threads < 0 {
			logrus.Fatalf("Invalid thread count: %d", cfg.Threads)
		}
		if err := cfg.apply(cmd.ErrOrStderr()); err != nil {
			logrus.Fatalf("Failed to configure tracing: %v", err)
		}

		var reg *prometheus.Registry
		if demoMetrics {
			reg = prometheus.NewRegistry()
			debugger.SetMetrics(debugger.NewMetrics(reg))
			defer debugger.SetMetrics(nil)
		}

		logrus.Infof("Running demo: level=%s threads=%d seed=%d", cfg.Level, cfg.Threads, cfg.Seed)
		if err := runDemo(cfg, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Demo failed: %v", err)
		}

		if reg != nil {
			if err := writeMetrics(cmd.OutOrStdout(), reg); err != nil {
				logrus.Fatalf("Failed to gather metrics: %v", err)
			}
		}
	},
}

func applyDemoFlags(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("level") {
		cfg.Level = demoLevel
	}
	if flags.Changed("threads") {
		cfg.Threads = demoThreads
	}
	if flags.Changed("seed") {
		cfg.Seed = demoSeed
	}
	if flags.Changed("delay-scale") {
		cfg.DelayScale = demoDelayScale
	}
	if flags.Changed("format") {
		cfg.Format = demoFormat
	}
	if flags.Changed("color") {
		cfg.Color = demoColor
	}
	if flags.Changed("backend") {
		cfg.Backend = demoBackend
	}
}

// demo holds the state shared by every traced call of the walkthrough.
type demo struct {
	multi      atomic.Bool
	delayScale float64

	mu  sync.Mutex
	rng *rand.Rand
	out io.Writer
}

func newDemo(seed int64, delayScale float64, out io.Writer) *demo {
	return &demo{
		delayScale: delayScale,
		rng:        rand.New(rand.NewPCG(uint64(seed), 0)),
		out:        out,
	}
}

// sleep pauses for randrange(n)/div seconds, scaled.
func (d *demo) sleep(n int, div float64) {
	d.mu.Lock()
	r := d.rng.IntN(n)
	d.mu.Unlock()
	time.Sleep(time.Duration(float64(r) / div * d.delayScale * float64(time.Second)))
}

func (d *demo) printf(format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, format, args...)
}

var functionTest1 = debugger.Method((*demo).functionTest1)

func (d *demo) functionTest1() {
	if d.multi.Load() {
		d.functionTest2()
		d.functionTest3()
	}
}

func (d *demo) functionTest2() {
	d.sleep(9, 10)
	d.printf("functionTest2 goroutine name: %s\n", goid.Name())
	d.functionTest3()
}

func (d *demo) functionTest3() {
	functionTest4 := debugger.Func(func() {})
	functionTest4()
}

// someClass carries four properties, each traced on different accessors,
// a traced attribute and traced methods.
type someClass struct {
	d *demo
}

var someAttribute = debugger.Attr("cmd.someClass.someAttribute", "some_attribute example")

var (
	propertyTest1 = debugger.TraceProperty(debugger.Property[*someClass, string]{
		Getter:    (*someClass).getProperty1,
		Setter:    (*someClass).setProperty1,
		Deleter:   (*someClass).deleteProperty1,
		GetterDoc: "propertyTest1 cascades into the other properties during the concurrent pass.",
	}, debugger.TraceGetter, debugger.WithName("cmd.someClass.propertyTest1"))

	propertyTest2 = debugger.TraceProperty(debugger.Property[*someClass, string]{
		Getter:  func(*someClass) string { return "This is the propertyTest2 getter" },
		Setter:  (*someClass).setProperty2,
		Deleter: func(c *someClass) { c.d.sleep(9, 1000) },
	}, debugger.TraceSetter, debugger.WithName("cmd.someClass.propertyTest2"))

	propertyTest3 = debugger.TraceProperty(debugger.Property[*someClass, string]{
		Getter:  func(*someClass) string { return "This is the propertyTest3 getter" },
		Setter:  func(c *someClass, _ string) { c.d.sleep(9, 1000) },
		Deleter: func(c *someClass) { c.d.sleep(9, 1_000_000) },
	}, debugger.TraceDeleter, debugger.WithName("cmd.someClass.propertyTest3"))

	propertyTest4 = debugger.TraceProperty(debugger.Property[*someClass, string]{
		Getter:  (*someClass).getProperty4,
		Setter:  func(c *someClass, _ string) { time.Sleep(time.Duration(0.1 * c.d.delayScale * float64(time.Second))) },
		Deleter: func(c *someClass) { c.d.sleep(9, 1000) },
	}, debugger.TraceAll, debugger.WithName("cmd.someClass.propertyTest4"))
)

func (c *someClass) getProperty1() string {
	c.d.sleep(9, 10)
	if c.d.multi.Load() {
		_, _ = propertyTest2.Get(c)
		_, _ = propertyTest3.Get(c)
		_, _ = propertyTest4.Get(c)
	}
	return "This is the propertyTest1 getter"
}

func (c *someClass) setProperty1(v string) {
	if c.d.multi.Load() {
		_ = propertyTest2.Set(c, v)
		_ = propertyTest3.Set(c, v)
		_ = propertyTest4.Set(c, v)
	}
}

func (c *someClass) deleteProperty1() {
	if c.d.multi.Load() {
		_ = propertyTest2.Delete(c)
		_ = propertyTest3.Delete(c)
		_ = propertyTest4.Delete(c)

		_ = someAttribute.Get()
		someAttribute.Set("setting some_attribute")
	}
}

func (c *someClass) setProperty2(string) {
	c.d.sleep(9, 10)
	c.d.printf("propertyTest2 setter goroutine name: %s\n", goid.Name())
}

func (c *someClass) getProperty4() string {
	c.d.sleep(9, 10)
	c.d.printf("propertyTest4 getter goroutine name: %s\n", goid.Name())
	return "This is the propertyTest4 getter"
}

var methodTest1 = debugger.Dynamic(func(args []any, _ map[string]any) (any, error) {
	c := args[0].(*someClass)
	c.d.sleep(9, 10_000_000)
	if c.d.multi.Load() {
		c.methodTest2("some_argument")
	}
	return nil, nil
}, debugger.Signature{
	Params:   []debugger.Param{debugger.Arg("arg"), debugger.Default("default_arg", "This is a default arg")},
	Receiver: true,
}, debugger.WithName("cmd.someClass.methodTest1"))

func (c *someClass) methodTest2(string) {
	methodTest3 := debugger.Func(func() {
		c.d.sleep(9, 10)
	})
	methodTest3()
}

// do is one pass of the walkthrough. The concurrent pass brackets its calls
// in a logging run.
func (d *demo) do(start <-chan struct{}) {
	<-start
	c := &someClass{d: d}

	if d.multi.Load() {
		debugger.BeginRun()

		functionTest1(d)
		d.sleep(2, 10)
		_, _ = propertyTest1.Get(c)
		_ = propertyTest1.Set(c, "Some Value")
		_ = propertyTest1.Delete(c)
		_, _ = methodTest1([]any{c, "argument 1"}, nil)

		debugger.EndRun()
		return
	}

	functionTest1(d)
	d.functionTest2()

	for _, p := range []debugger.Property[*someClass, string]{propertyTest1, propertyTest2, propertyTest3, propertyTest4} {
		_, _ = p.Get(c)
		_ = p.Set(c, "Some Value")
		_ = p.Delete(c)
	}

	_ = someAttribute.Get()
	someAttribute.Set("setting some_attribute single goroutine")

	_, _ = methodTest1([]any{c, "argument 1"}, nil)
	c.methodTest2("argument 2")
}

// runDemo makes one single-goroutine pass, then cfg.Threads workers and the
// calling goroutine make concurrent passes released together.
func runDemo(cfg Config, out io.Writer) error {
	d := newDemo(cfg.Seed, cfg.DelayScale, out)

	ready := make(chan struct{})
	close(ready)
	d.do(ready)

	d.multi.Store(true)
	start := make(chan struct{})
	var g errgroup.Group
	for i := 0; i < cfg.Threads; i++ {
		name := fmt.Sprintf("Worker-%d", i+1)
		g.Go(func() error {
			goid.SetName(name)
			defer goid.ClearName()
			d.do(start)
			return nil
		})
	}
	close(start)
	d.do(start)

	return g.Wait()
}

// writeMetrics prints every gathered sample as "name{labels} value".
func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			pairs := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				pairs = append(pairs, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			labels := ""
			if len(pairs) > 0 {
				labels = "{" + strings.Join(pairs, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(w, "%s%s %g\n", mf.GetName(), labels, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fmt.Fprintf(w, "%s_count%s %d\n", mf.GetName(), labels, h.GetSampleCount())
				fmt.Fprintf(w, "%s_sum%s %g\n", mf.GetName(), labels, h.GetSampleSum())
			}
		}
	}
	return nil
}

func init() {
	demoCmd.Flags().StringVar(&demoLevel, "level", "ANGRY", "Trace level: a name (ANGRY, \"ARGS|RETURN\") or an integer")
	demoCmd.Flags().IntVar(&demoThreads, "threads", 5, "Worker goroutines in the concurrent pass")
	demoCmd.Flags().Int64Var(&demoSeed, "seed", 42, "Seed for the random sleeps")
	demoCmd.Flags().Float64Var(&demoDelayScale, "delay-scale", 1.0, "Multiplier applied to every sleep (0 disables sleeping)")
	demoCmd.Flags().StringVar(&demoFormat, "format", "text", "Record format (text, json)")
	demoCmd.Flags().StringVar(&demoColor, "color", "auto", "Colour mode for text records (auto, always, never)")
	demoCmd.Flags().StringVar(&demoBackend, "backend", "logrus", "Sink backend (logrus, zap)")
	demoCmd.Flags().BoolVar(&demoMetrics, "metrics", false, "Print tracer metrics after the run")

	rootCmd.AddCommand(demoCmd)
}
