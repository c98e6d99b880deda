package main

import (
	"os"

	"nsfplay/emu"
)

func main() {
	args := parseArgs(os.Args[1:])
	cfg := emu.LoadConfigOrDefault()

	switch args.mode {
	case infosMode:
		infosMain(args.Infos)
	case renderMode:
		renderMain(args.Render, cfg)
	case playMode:
		playMain(args.Play, cfg)
	case toneMode:
		toneMain(args.Tone, cfg)
	case periodsMode:
		periodsMain(args.Periods)
	case configMode:
		configMain(args.Config, cfg)
	case versionMode:
		versionMain()
	}
}
