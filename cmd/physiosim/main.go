package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/san-kum/physiosim/internal/config"
	"github.com/san-kum/physiosim/internal/logging"
	"github.com/san-kum/physiosim/internal/pkpd"
	"github.com/san-kum/physiosim/internal/refdata"
	"github.com/san-kum/physiosim/internal/stack"
	"github.com/san-kum/physiosim/internal/storage"
	"github.com/san-kum/physiosim/internal/tui"
)

const envPrefix = "PHYSIOSIM"

var (
	settings = viper.New()
	logger   = zap.NewNop()

	settingsFile string
	configFile   string
	preset       string
	goal         string
	stackSpec    string
	cycleWeeks   float64
	jsonOut      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "physiosim",
		Short:         "personalized pharmacology simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return explore(cmd, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&settingsFile, "settings", "", "settings file (yaml, json or toml)")
	pf.String("data-dir", ".physiosim", "run storage directory")
	pf.String("reference-dir", "", "directory overriding the embedded reference tables")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console or json)")
	for _, name := range []string{"data-dir", "reference-dir", "log-level", "log-format"} {
		_ = settings.BindPFlag(name, pf.Lookup(name))
	}

	rootCmd.AddCommand(
		evaluateCmd(), snapshotCmd(), runCmd(), serumCmd(),
		listCmd(), showCmd(), plotCmd(), exportJSONCmd(), exportCSVCmd(),
		frontLoadCmd(), optimizeCmd(), surfaceCmd(), analyzeCmd(), sweepCmd(),
		compoundsCmd(), presetsCmd(), exploreCmd(), serveCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup layers settings as flags over env over settings file, then builds
// the logger.
func setup() error {
	settings.SetEnvPrefix(envPrefix)
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	settings.SetDefault("listen", ":8080")
	if settingsFile != "" {
		settings.SetConfigFile(settingsFile)
		if err := settings.ReadInConfig(); err != nil {
			return fmt.Errorf("read settings: %w", err)
		}
	}

	l, err := logging.New(logging.Config{
		Level:  settings.GetString("log-level"),
		Format: settings.GetString("log-format"),
	})
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// addRunFlags registers the flags every command that builds a run config shares.
func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&configFile, "config", "c", "", "run config file (yaml)")
	f.StringVarP(&preset, "preset", "p", "", "preset as goal/name")
	f.StringVarP(&goal, "goal", "g", "", "goal preset key")
	f.StringVarP(&stackSpec, "stack", "s", "", "stack as compound:dose[:freq[:ester]],...")
	f.Float64VarP(&cycleWeeks, "weeks", "w", 0, "cycle length in weeks; enables protocol penalties")
}

func loadReference() (*pkpd.Reference, error) {
	ref, err := refdata.Load(settings.GetString("reference-dir"), logger)
	if err != nil {
		return nil, fmt.Errorf("load reference: %w", err)
	}
	return ref, nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(settings.GetString("data-dir"), logger)
	return st, st.Init()
}

// resolveConfig starts from a preset, a config file or the defaults, then
// applies --goal and --stack on top.
func resolveConfig(ref *pkpd.Reference) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case preset != "":
		g, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be goal/name, got %q", preset)
		}
		cfg = config.GetPreset(g, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(g))
		}
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	default:
		cfg = config.DefaultConfig()
	}

	if goal != "" {
		cfg.Goal = goal
	}
	if stackSpec != "" {
		s, err := parseStack(stackSpec)
		if err != nil {
			return nil, err
		}
		cfg.Stack = s
	}
	if cycleWeeks > 0 {
		cfg.Protocol = &stack.Protocol{CycleWeeks: cycleWeeks}
	}
	if err := cfg.Validate(ref); err != nil {
		return nil, err
	}
	return cfg, nil
}

func explore(cmd *cobra.Command, args []string) error {
	ref, err := loadReference()
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(ref)
	if err != nil {
		return err
	}
	return tui.Run(ref, cfg)
}

func exploreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive dose explorer",
		RunE:  explore,
	}
	addRunFlags(cmd)
	return cmd
}
