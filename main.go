package main

import (
	"fmt"
	"os"
	"path/filepath"

	"hostkit/internal/config"
	"hostkit/internal/host"
	"hostkit/internal/log"
	"hostkit/internal/settings"
	"hostkit/internal/ssh"
	"hostkit/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/docopt/docopt-go"
	"go.uber.org/zap"
)

const VERSION string = "0.3.0"
const USAGE_CONTENT string = `hostkit - SSH host spec parser and inventory

Version: %s

Usage:
  hostkit [--config=<path>]
  hostkit parse [--json] <spec>...
  hostkit ssh-options [--ssh-config=<path>] <spec>
  hostkit -h | --help

Options:
  -h --help             Show this screen.
  --config=<path>       Path to inventory file [default: ~/.local/state/hostkit/hosts.yaml]
  --json                Print reports as JSON.
  --ssh-config=<path>   OpenSSH client config to apply [default: ~/.ssh/config]

Environment:
  HOSTKIT_LOGLEVEL   debug, info, warn (default), error
  HOSTKIT_PROFILE    dev or prod log encoding
  HOSTKIT_LOGFILE    log destination`

func main() {
	usage := fmt.Sprintf(USAGE_CONTENT, VERSION)
	opts, err := docopt.ParseArgs(usage, os.Args[1:], VERSION)
	if err != nil {
		fmt.Println("Error parsing arguments:", err)
		os.Exit(1)
	}

	settings.Init()

	parse, _ := opts.Bool("parse")
	sshOptions, _ := opts.Bool("ssh-options")
	if !parse && !sshOptions {
		// The TUI owns the terminal, so logs go to a file.
		if defaultPath, err := config.GetDefaultConfigPath(); err == nil {
			stateDir := filepath.Dir(defaultPath)
			if err := os.MkdirAll(stateDir, 0755); err == nil {
				settings.DefaultLogFile(filepath.Join(stateDir, "hostkit.log"))
			}
		}
	}

	logger, err := log.Setup()
	if err != nil {
		fmt.Println("Error setting up logging:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	specs, _ := opts["<spec>"].([]string)

	switch {
	case parse:
		asJSON, _ := opts.Bool("--json")
		err = runParse(specs, asJSON)
	case sshOptions:
		sshConfig, _ := opts.String("--ssh-config")
		err = runSSHOptions(specs[0], sshConfig)
	default:
		configPath, _ := opts.String("--config")
		err = runInventory(configPath)
	}
	if err != nil {
		fmt.Println("Error:", err)
		logger.Sync()
		os.Exit(1)
	}
}

func runParse(specs []string, asJSON bool) error {
	parser := host.NewParser()
	reports := make([]ui.Report, len(specs))
	failed := 0
	for i, spec := range specs {
		reports[i] = ui.NewReport(parser, spec)
		if reports[i].Failed() {
			failed++
		}
	}
	if err := ui.WriteReports(os.Stdout, reports, asJSON); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d host specs could not be parsed", failed, len(specs))
	}
	return nil
}

func runSSHOptions(spec, sshConfigPath string) error {
	v, err := host.Select(spec)
	if err != nil {
		return err
	}
	h, err := host.Parse(spec)
	if err != nil {
		return err
	}

	if sshConfigPath == "~/.ssh/config" {
		err = ssh.ResolveUserConfig(h)
	} else {
		err = ssh.ResolveUserConfigFile(h, sshConfigPath)
	}
	if err != nil {
		return err
	}

	if _, err := ssh.ClientConfig(h.NetSSHOptions()); err != nil {
		return err
	}
	zap.L().Info("resolved host", zap.String("spec", spec), zap.Stringer("host", h),
		zap.String("endpoint", ssh.NewEndpoint(h).String()))

	return ui.WriteReports(os.Stdout, []ui.Report{ui.ReportFor(spec, v.Name, h)}, true)
}

func runInventory(configPath string) error {
	if configPath == "~/.local/state/hostkit/hosts.yaml" {
		configPath = ""
	}
	configPath, err := config.FindConfigFile(configPath)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("error creating config directory %s: %w", configDir, err)
	}

	parser := host.NewParser()
	loader := config.NewConfigLoader(configPath).WithParser(parser)
	hosts, err := loader.Load()
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unable to load inventory %s: %w", configPath, err)
	}
	zap.L().Info("loaded inventory", zap.String("path", configPath), zap.Int("hosts", len(hosts)))

	app := ui.NewApp(loader, parser, hosts)
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
