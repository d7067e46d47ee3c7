package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"panechat/internal/alias"
	"panechat/internal/chat"
	"panechat/internal/config"
	"panechat/internal/errs"
	"panechat/internal/logger"
	"panechat/internal/state"
	"panechat/internal/ui"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		debug      bool
		demo       bool
		configPath string
	)
	cmd := &cobra.Command{
		Use:     "panechat",
		Short:   "A terminal multi-pane chat client",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(debug, demo, configPath)
		},
		SilenceUsage: true,
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "debug logging")
	cmd.Flags().BoolVar(&demo, "demo", false, "run against the built-in demo backend")
	cmd.Flags().StringVar(&configPath, "config", "", "config file path")
	return cmd
}

func run(debug, demo bool, configPath string) error {
	if err := logger.Init(filepath.Join(os.TempDir(), "panechat.log")); err != nil {
		return err
	}
	defer logger.Close()
	logger.SetDebug(debug)
	logger.Info("starting", "version", version, "demo", demo)

	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	client, err := buildClient(cfg, demo)
	if err != nil {
		return err
	}
	defer client.Close()

	aliasPath, err := config.AliasesPath()
	if err != nil {
		return err
	}
	aliases, err := alias.Load(aliasPath)
	if err != nil {
		logger.Warn("alias load failed, starting empty", "err", err)
		aliases, _ = alias.Load(filepath.Join(os.TempDir(), "panechat-aliases.json"))
	}
	defer aliases.Close()
	reloads, err := aliases.Watch()
	if err != nil {
		logger.Warn("alias watch unavailable", "err", err)
		reloads = nil
	}

	layoutPath, err := config.LayoutPath()
	if err != nil {
		return err
	}
	st, err := state.Load(layoutPath, cfg.Display)
	notice := ""
	if err != nil {
		logger.Error("layout load failed", "err", err)
		if errs.Is(errs.CorruptLayout, err) {
			notice = "saved layout was corrupt; starting fresh"
		}
		st = state.Default(cfg.Display)
	}

	model := ui.New(client, cfg, st, aliases, reloads, layoutPath)
	if notice != "" {
		model.SetNotice(notice)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "err", err)
		return err
	}
	return nil
}

func buildClient(cfg config.Config, demo bool) (chat.Client, error) {
	if demo {
		d := chat.NewDemo(time.Now().UnixNano())
		d.StartChatter(20 * time.Second)
		return d, nil
	}
	// The network backend ships separately; without credentials there
	// is nothing to dial.
	if cfg.APIID == 0 || cfg.APIHash == "" {
		return nil, errs.E(errs.Op("main"), errs.Config,
			"no backend credentials configured; try --demo")
	}
	return nil, errs.E(errs.Op("main"), errs.Config,
		"external backend support is not built in; run with --demo")
}
