package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tejashwikalptaru/subtune/internal/app"
	"github.com/tejashwikalptaru/subtune/internal/domain"
)

const commandTimeout = 30 * time.Second

type ConfigParams struct {
	Config string `name:"config" optional:"true" help:"Path to the config file."`
}

type SearchParams struct {
	Query  string `pos:"true" required:"true" help:"Text to search for."`
	Config string `name:"config" optional:"true" help:"Path to the config file."`
}

func headless(configPath string) (*app.Application, error) {
	config := app.DefaultConfig()
	config.ConfigPath = configPath
	config.Headless = true
	return app.NewApplication(config)
}

func pingCmd() *cobra.Command {
	return boa.CmdT[ConfigParams]{
		Use:         "ping",
		Short:       "Check server connectivity and credentials",
		ParamEnrich: paramEnricher(),
		RunFunc: func(params *ConfigParams, cmd *cobra.Command, args []string) {
			os.Exit(runPing(params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func runPing(params *ConfigParams, stdout, stderr io.Writer) int {
	application, err := headless(params.Config)
	if err != nil {
		fmt.Fprintf(stderr, "ping: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	cfg := application.Config()
	if err := application.Ping(ctx); err != nil {
		fmt.Fprintf(stderr, "ping: %s: %s\n", cfg.BaseURL, domain.UserMessage(err))
		return 1
	}
	fmt.Fprintf(stdout, "%s is reachable as %q\n", cfg.BaseURL, cfg.Username)
	return 0
}

func searchCmd() *cobra.Command {
	return boa.CmdT[SearchParams]{
		Use:         "search",
		Short:       "Search the server for albums and songs",
		ParamEnrich: paramEnricher(),
		RunFunc: func(params *SearchParams, cmd *cobra.Command, args []string) {
			os.Exit(runSearch(params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func runSearch(params *SearchParams, stdout, stderr io.Writer) int {
	application, err := headless(params.Config)
	if err != nil {
		fmt.Fprintf(stderr, "search: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	hits, err := application.Search(ctx, params.Query)
	if err != nil {
		fmt.Fprintf(stderr, "search: %s\n", domain.UserMessage(err))
		return 1
	}
	renderHits(stdout, hits)
	return 0
}

func renderHits(w io.Writer, hits []domain.SearchHit) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetAllowedRowLength(termWidth())

	t.AppendHeader(table.Row{"Type", "Title", "Artist", "ID"})
	for _, hit := range hits {
		switch h := hit.(type) {
		case domain.AlbumHit:
			t.AppendRow(table.Row{"album", h.Name, h.Artist, h.ID})
		case domain.SongHit:
			t.AppendRow(table.Row{"song", h.Title, h.Artist, h.ID})
		}
	}
	t.AppendFooter(table.Row{"", "", "results", len(hits)})
	t.Render()
}

func termWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 120
}

func configCmd() *cobra.Command {
	return boa.CmdT[ConfigParams]{
		Use:         "config",
		Short:       "Show where the config file lives and whether it needs editing",
		ParamEnrich: paramEnricher(),
		RunFunc: func(params *ConfigParams, cmd *cobra.Command, args []string) {
			os.Exit(runConfig(params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func runConfig(params *ConfigParams, stdout, stderr io.Writer) int {
	application, err := headless(params.Config)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	cfg := application.Config()
	fmt.Fprintf(stdout, "path:          %s\n", application.ConfigPath())
	fmt.Fprintf(stdout, "base_url:      %s\n", cfg.BaseURL)
	fmt.Fprintf(stdout, "username:      %s\n", cfg.Username)
	fmt.Fprintf(stdout, "notifications: %t\n", cfg.Notifications)
	if cfg.NeedsEdit() {
		fmt.Fprintln(stdout, "status:        using defaults, edit the file before connecting")
	} else {
		fmt.Fprintln(stdout, "status:        ok")
	}
	return 0
}
