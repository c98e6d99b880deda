package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"nsfplay/emu/log"
)

type mode byte

const (
	infosMode   mode = iota // Show NSF infos
	renderMode              // Render traces to WAV files
	playMode                // Play a trace on the audio device
	toneMode                // Write a test tone
	periodsMode             // Show the note period table
	configMode              // Show or save the configuration
	versionMode             // Show nsfplay version
)

type (
	CLI struct {
		Infos   Infos   `cmd:"" help:"Show NSF file infos."`
		Render  Render  `cmd:"" help:"Render register write traces to WAV files."`
		Play    Play    `cmd:"" help:"Play a register write trace."`
		Tone    Tone    `cmd:"" help:"Write a test tone to a WAV file."`
		Periods Periods `cmd:"" help:"Show the APU timer periods of the 88 piano keys."`
		Config  Config  `cmd:"" help:"Show the configuration."`
		Version Version `cmd:"" help:"Show nsfplay version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Infos struct {
		NSFPath string `arg:"" name:"/path/to/nsf" type:"existingfile"`
	}

	Render struct {
		Traces  []string      `arg:"" name:"/path/to/trace" help:"${trace_help}" type:"existingfile"`
		OutDir  string        `name:"out" help:"Output directory." type:"existingdir" default:"."`
		Seconds float64       `name:"seconds" help:"Seconds to render, 0 to stop at the end of the trace." default:"0"`
		Tail    time.Duration `name:"tail" help:"Duration rendered after the end of the trace." default:"1s"`
		NSF     string        `name:"nsf" help:"${nsf_help}" type:"existingfile"`
		Region  string        `name:"region" help:"${region_help}"`
		Jobs    int           `name:"jobs" short:"j" help:"Number of traces rendered in parallel, 0 for one per CPU." default:"0"`
	}

	Play struct {
		Trace   string        `arg:"" name:"/path/to/trace" help:"${trace_help}" type:"existingfile"`
		Tail    time.Duration `name:"tail" help:"Duration played after the end of the trace." default:"1s"`
		NSF     string        `name:"nsf" help:"${nsf_help}" type:"existingfile"`
		Region  string        `name:"region" help:"${region_help}"`
		Backend string        `name:"backend" help:"Audio backend (${backends}), overrides the configuration."`
		Volume  float64       `name:"volume" help:"Volume in [0, 1], overrides the configuration." default:"-1"`
	}

	Tone struct {
		Out      string        `arg:"" name:"out.wav" help:"Output WAV file." type:"path"`
		Freq     float64       `name:"freq" help:"Tone frequency in Hz." default:"440"`
		Duration time.Duration `name:"duration" help:"Tone duration." default:"1s"`
		Wave     string        `name:"wave" help:"Waveform: sine, or rendered by the APU pulse or triangle channel." enum:"sine,pulse,triangle" default:"sine"`
		Region   string        `name:"region" help:"${region_help}"`
	}

	Periods struct {
		Region string `name:"region" help:"${region_help}"`
	}

	Config struct {
		Save bool `name:"save" help:"Write the current configuration to the configuration directory."`
	}

	Version struct{}
)

var vars = kong.Vars{
	"trace_help":  "JSON-lines register write trace.",
	"nsf_help":    "NSF file the trace has been recorded from.",
	"region_help": "Console region (ntsc or pal), overrides the NSF header and the configuration.",
	"log_help":    "Enable logging for specified modules.",
	"backends":    "sdl, oto or portaudio",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("nsfplay"),
		kong.Description("NES APU and NSF player."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	// Strip positional arguments, like "play </path/to/trace>".
	cmd, _, _ := strings.Cut(ctx.Command(), " ")
	switch cmd {
	case "infos":
		cfg.mode = infosMode
	case "render":
		cfg.mode = renderMode
	case "play":
		cfg.mode = playMode
	case "tone":
		cfg.mode = toneMode
	case "periods":
		cfg.mode = periodsMode
	case "config":
		cfg.mode = configMode
	case "version":
		cfg.mode = versionMode
	default:
		fatalf("unexpected command %q", ctx.Command())
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if ctx.Command() == "" {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
