// Package main is the production entry point for SubTune, a terminal
// client for Subsonic-compatible music servers.
//
// Build:
//
//	go build -o build/subtune ./cmd
//
// Run:
//
//	./build/subtune
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/subtune/internal/app"
)

type Params struct {
	Config    string `name:"config" optional:"true" help:"Path to the config file (default: <user config dir>/subtune/config.json)."`
	LogFile   string `name:"log-file" optional:"true" help:"Path to the log file (default: <user cache dir>/subtune/subtune.log)."`
	NoMPRIS   bool   `name:"no-mpris" optional:"true" help:"Do not register as an MPRIS media player on D-Bus."`
	MockAudio bool   `name:"mock-audio" optional:"true" help:"Play through a silent sink instead of the sound card."`
}

func main() {
	boa.CmdT[Params]{
		Use:         "subtune",
		Short:       "Terminal music player for Subsonic servers",
		Version:     app.GetVersionInfo().String(),
		ParamEnrich: paramEnricher(),
		SubCmds: []*cobra.Command{
			pingCmd(),
			searchCmd(),
			configCmd(),
		},
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			os.Exit(run(params))
		},
	}.Run()
}

func paramEnricher() boa.ParamEnricher {
	return boa.ParamEnricherCombine(
		boa.ParamEnricherBool,
		boa.ParamEnricherName,
		boa.ParamEnricherShort,
	)
}

func run(params *Params) int {
	config := app.DefaultConfig()
	config.ConfigPath = params.Config
	config.LogFile = params.LogFile
	config.DisableMPRIS = params.NoMPRIS
	config.UseMockAudio = params.MockAudio

	application, err := app.NewApplication(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "subtune: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	app.WarnIfNeedsEdit(application.Config(), application.ConfigPath(), os.Stdin, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "subtune: %v\n", err)
		return 1
	}
	return 0
}
