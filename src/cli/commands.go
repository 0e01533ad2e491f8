package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	edgelight "github.com/ln64-git/edgelight/internal"
	"github.com/ln64-git/edgelight/src/config"
	desktopmonitor "github.com/ln64-git/edgelight/src/features/desktop-monitor"
	"github.com/ln64-git/edgelight/src/features/hotkey"
	overlaywindow "github.com/ln64-git/edgelight/src/features/overlay-window"
	"github.com/ln64-git/edgelight/src/utility"
	"github.com/spf13/cobra"
)

// Version is the application version
const Version = "0.1.0"

// CLI holds what the command handlers need. The overlay itself is only built when
// the root command runs.
type CLI struct {
	logger     *utility.Logger
	config     *config.Config
	enumerator desktopmonitor.Enumerator
	platforms  edgelight.PlatformFactory

	// ConfigPath is watched for live changes while the overlay runs. Empty disables it.
	ConfigPath string
}

// NewCLI creates a new CLI instance
func NewCLI(logger *utility.Logger, cfg *config.Config, enumerator desktopmonitor.Enumerator, platforms edgelight.PlatformFactory) *CLI {
	if logger == nil {
		logger = utility.GetLogger()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return &CLI{
		logger:     logger,
		config:     cfg,
		enumerator: enumerator,
		platforms:  platforms,
		ConfigPath: ".env",
	}
}

// CreateCommands creates all CLI commands
func (c *CLI) CreateCommands() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "edgelight",
		Short: "EdgeLight - screen-edge ring light",
		Long:  `EdgeLight draws a soft, colour-temperature adjustable ring of light around the edge of a monitor for video calls and low-light work.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOverlay(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(c.createDisplaysCmd())
	rootCmd.AddCommand(c.createColorCmd())
	rootCmd.AddCommand(c.createHotkeysCmd())
	rootCmd.AddCommand(c.createVersionCmd())

	return rootCmd
}

func (c *CLI) runOverlay(parent context.Context) error {
	c.logger.Info("EdgeLight v%s", Version)
	c.logger.Debug("%s", c.config)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := edgelight.NewEdgeLight(ctx, c.logger, c.config, c.enumerator, c.platforms)
	defer app.Shutdown()
	c.watchConfig(app)
	c.logger.Debug("%s", app.GetHotkeyHelp())

	window := overlaywindow.New(app, c.logger, overlaywindow.Options{
		Title:     "EdgeLight",
		TPS:       c.config.TPS,
		ShowPanel: c.config.ShowControlPanel,
	})
	if err := window.Run(ctx); err != nil {
		return fmt.Errorf("overlay window: %w", err)
	}

	c.logger.Info("Final state:\n%s", app.GetStatus())
	return nil
}

// watchConfig feeds edits of the config file to the running overlay. Changes are
// handed to the event thread; there is nothing to watch when the file is missing.
func (c *CLI) watchConfig(app *edgelight.EdgeLight) {
	if c.ConfigPath == "" {
		return
	}
	err := config.Watch(c.ConfigPath, func(next *config.Config) {
		app.Post(func() { app.ApplyConfig(next) })
	}, func(err error) {
		c.logger.Warn("Ignoring config change: %v", err)
	})
	if err != nil {
		c.logger.Debug("Config reload disabled: %v", err)
	}
}

func (c *CLI) createDisplaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "displays",
		Short: "List connected monitors",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := edgelight.GetDisplayInfo(cmd.Context(), c.logger, c.enumerator)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func (c *CLI) createColorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "color <kelvin>",
		Short: "Show the colours derived for a colour temperature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kelvin, err := parseKelvin(args[0])
			if err != nil {
				return err
			}
			result, err := edgelight.GetColorInfo(kelvin)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func (c *CLI) createHotkeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hotkeys",
		Short: "List global keyboard shortcuts",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, hotkey.Help(hotkey.DefaultBindings()))
			fmt.Fprintln(out, "Escape closes the overlay while it has focus.")
		},
	}
}

func (c *CLI) createVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "edgelight v%s\n", Version)
		},
	}
}
