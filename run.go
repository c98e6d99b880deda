package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"nsfplay/audio"
	"nsfplay/emu"
	"nsfplay/emu/log"
	"nsfplay/hw/apu"
	"nsfplay/hw/hwdefs"
	"nsfplay/nsf"
	"nsfplay/trace"
)

func infosMain(args Infos) {
	f, err := nsf.Open(args.NSFPath)
	checkf(err, "failed to open nsf file")
	checkf(f.PrintInfos(os.Stdout), "failed to print infos")
}

// loadNSF opens the NSF file at path, if any.
func loadNSF(path string) *nsf.File {
	if path == "" {
		return nil
	}
	f, err := nsf.Open(path)
	checkf(err, "failed to open nsf file")
	return f
}

// pickRegion returns the region given on the command line, or the one of the
// NSF header, or the configured one.
func pickRegion(flag string, prog *nsf.File, cfg emu.Config) hwdefs.Region {
	if flag != "" {
		r, ok := hwdefs.ParseRegion(flag)
		if !ok {
			fatalf("invalid region %q, valid regions are ntsc and pal", flag)
		}
		return r
	}
	if prog != nil {
		return prog.Region()
	}
	return cfg.Region()
}

func newPlayer(region hwdefs.Region, src emu.EventSource, prog *nsf.File, cfg emu.AudioConfig) (*emu.Player, error) {
	p := emu.NewPlayer(region, src, cfg.SampleRate, cfg.Volume)
	if prog != nil {
		if err := p.Bus.Load(prog); err != nil {
			return nil, err
		}
	}
	return p, nil
}

type renderJob struct {
	outDir  string
	seconds float64
	tail    time.Duration
	region  hwdefs.Region
	prog    *nsf.File
	audio   emu.AudioConfig
}

func renderMain(args Render, cfg emu.Config) {
	prog := loadNSF(args.NSF)
	job := renderJob{
		outDir:  args.OutDir,
		seconds: args.Seconds,
		tail:    args.Tail,
		region:  pickRegion(args.Region, prog, cfg),
		prog:    prog,
		audio:   cfg.Audio,
	}

	var g errgroup.Group
	if args.Jobs > 0 {
		g.SetLimit(args.Jobs)
	} else {
		g.SetLimit(runtime.NumCPU())
	}

	for _, path := range args.Traces {
		g.Go(func() error {
			out, frames, err := job.render(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			fmt.Printf("%s -> %s (%d samples)\n", path, out, frames)
			return nil
		})
	}

	checkf(g.Wait(), "failed to render traces")
}

// render renders the trace at path to a WAV file in the output directory.
// Whatever has been rendered before a trace error is kept.
func (job *renderJob) render(path string) (string, int, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer in.Close()

	p, err := newPlayer(job.region, trace.NewReader(in), job.prog, job.audio)
	if err != nil {
		return "", 0, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".wav"
	out := filepath.Join(job.outDir, name)
	w, err := os.Create(out)
	if err != nil {
		return "", 0, err
	}
	defer w.Close()

	ww, err := audio.NewWAVWriter(w, job.audio.SampleRate, 1)
	if err != nil {
		return "", 0, err
	}

	rate := float64(job.audio.SampleRate)
	limit := int(job.seconds * rate)
	tail := int(job.tail.Seconds() * rate)

	const chunk = 4096
	total, rendered := 0, 0 // rendered counts samples after the end of the trace
	for {
		n := chunk
		if limit > 0 {
			n = min(n, limit-total)
		} else if p.Done() {
			n = min(n, tail-rendered)
		}
		if n <= 0 {
			break
		}

		done := p.Done()
		samples, rerr := p.Render(n)
		if err := ww.WriteSamples(samples); err != nil {
			return out, ww.Frames(), err
		}
		total += len(samples)
		if done {
			rendered += len(samples)
		}
		if rerr != nil {
			err = rerr
			break
		}
	}

	if cerr := ww.Close(); err == nil {
		err = cerr
	}

	var fault *trace.FaultError
	if errors.As(err, &fault) {
		log.ModEmu.WarnZ("trace stopped on cpu fault").
			String("trace", path).
			Uint64("cycle", fault.Cycle).
			End()
	} else {
		log.ModEmu.InfoZ("trace rendered").
			String("trace", path).
			String("out", out).
			Int("frames", ww.Frames()).
			End()
	}
	return out, ww.Frames(), err
}

func playMain(args Play, cfg emu.Config) {
	if args.Backend != "" {
		cfg.Audio.Backend = args.Backend
	}
	if args.Volume >= 0 {
		cfg.Audio.Volume = args.Volume
	}
	cfg.Check()

	prog := loadNSF(args.NSF)
	region := pickRegion(args.Region, prog, cfg)

	in, err := os.Open(args.Trace)
	checkf(err, "failed to open trace")
	defer in.Close()

	p, err := newPlayer(region, trace.NewReader(in), prog, cfg.Audio)
	checkf(err, "failed to load nsf program")
	log.AddContext(p)
	defer log.RemoveContext(p)

	emulator, err := emu.Launch(p, cfg.Audio, args.Tail.Seconds())
	checkf(err, "failed to start player")

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	go func() {
		<-sigc
		emulator.Stop()
	}()

	stopProgress := func() {}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		stopProgress = showProgress(emulator, args.Trace)
	}

	err = emulator.Run()
	stopProgress()
	checkf(err, "playback failed")
}

// showProgress prints the playback position on the terminal, until the
// returned function is called.
func showProgress(e *emu.Emulator, name string) (stop func()) {
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)

		tick := time.NewTicker(250 * time.Millisecond)
		defer tick.Stop()

		for {
			select {
			case <-done:
				fmt.Println()
				return
			case <-tick.C:
				fmt.Printf("\r%s  %s", filepath.Base(name), e.Played().Truncate(time.Second/10))
			}
		}
	}()

	return func() {
		close(done)
		<-exited
	}
}

func toneMain(args Tone, cfg emu.Config) {
	rate := cfg.Audio.SampleRate
	n := int(args.Duration.Seconds() * float64(rate))

	var samples []int16
	switch args.Wave {
	case "sine":
		samples = audio.Sine(args.Freq, rate, n, cfg.Audio.Volume)
	default:
		region := pickRegion(args.Region, nil, cfg)
		events, err := emu.ToneEvents(args.Wave, args.Freq, region)
		checkf(err, "invalid tone")

		p := emu.NewPlayer(region, &trace.Slice{Events: events}, rate, cfg.Audio.Volume)
		samples, err = p.Render(n)
		checkf(err, "failed to render tone")
	}

	f, err := os.Create(args.Out)
	checkf(err, "failed to create output file")
	checkf(audio.WriteWAV(f, rate, samples), "failed to write %s", args.Out)
	checkf(f.Close(), "failed to write %s", args.Out)
}

func periodsMain(args Periods) {
	region := pickRegion(args.Region, nil, emu.DefaultConfig())

	period := func(p uint16) string {
		if p == 0 {
			return "-"
		}
		return fmt.Sprintf("$%03X", p)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "key\tnote\tfreq (Hz)\tpulse\ttriangle\t\n")
	for _, n := range apu.PeriodTable(region) {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\t%s\t\n",
			n.Key, n.Name, n.Freq, period(n.Pulse), period(n.Triangle))
	}
	checkf(tw.Flush(), "failed to print periods")
}

func configMain(args Config, cfg emu.Config) {
	fmt.Printf("# %s\n", filepath.Join(emu.ConfigDir(), "config.toml"))
	checkf(toml.NewEncoder(os.Stdout).Encode(cfg), "failed to print config")

	if args.Save {
		checkf(emu.SaveConfig(cfg), "failed to save config")
	}
}

func versionMain() {
	version, revision := "devel", ""
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" {
			version = info.Main.Version
		}
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				revision = s.Value[:7]
			}
		}
	}

	fmt.Printf("nsfplay %s", version)
	if revision != "" {
		fmt.Printf(" (commit %s)", revision)
	}
	fmt.Printf(" %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
