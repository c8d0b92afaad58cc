package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thushan/ollafree/internal/adapter/balancer"
	"github.com/thushan/ollafree/internal/config"
	"github.com/thushan/ollafree/internal/logger"
	"github.com/thushan/ollafree/internal/version"
	"github.com/thushan/ollafree/pkg/ollafree"
)

// ErrUsage marks errors caused by how the command was invoked rather than
// by what it did.
var ErrUsage = errors.New("usage")

const (
	flagConfig   = "config"
	flagMetadata = "metadata"
	flagStrategy = "strategy"
	flagLogLevel = "log-level"
	flagOutput   = "output"
	flagOpt      = "opt"
	flagStats    = "stats"
)

// Application runs one CLI command against a client.
type Application struct {
	client  *ollafree.Client
	out     io.Writer
	errOut  io.Writer
	logger  logger.StyledLogger
	cleanup func()
}

// New returns an Application bound to an existing client. The global
// configuration flags are accepted but have no effect.
func New(client *ollafree.Client, out, errOut io.Writer, log logger.StyledLogger) *Application {
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Application{
		client: client,
		out:    out,
		errOut: errOut,
		logger: log,
	}
}

// NewCLI returns an Application that loads the configuration, the logger
// and the client from the global flags once a command is about to run.
func NewCLI(out, errOut io.Writer) *Application {
	return &Application{
		out:    out,
		errOut: errOut,
		logger: logger.NewDiscard(),
	}
}

// Close flushes and closes the log file, if one was opened.
func (a *Application) Close() {
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}

// Run executes args against a fresh command tree. Usage errors are written
// to errOut together with the usage of the command that failed.
func (a *Application) Run(ctx context.Context, args []string) error {
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	root := a.Command()
	root.SetArgs(args)

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUsage) {
		fmt.Fprintf(a.errOut, "Error: %v\n\n%s", err, cmd.UsageString())
		return err
	}
	fmt.Fprintf(a.errOut, "Error: %v\n", err)
	return err
}

// Command builds the command tree.
func (a *Application) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           version.Name,
		Short:         version.Description,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unknown command %q", args[0])
			}
			return nil
		},
		RunE: func(*cobra.Command, []string) error {
			return usageErrorf("no command given")
		},
	}
	root.SetVersionTemplate(version.Banner(true) + "\n")
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})
	root.CompletionOptions.DisableDefaultCmd = true

	strategies := strings.Join(balancer.NewFactory().GetAvailableStrategies(), ", ")
	pf := root.PersistentFlags()
	pf.String(flagConfig, "", "path to a config file (default: search ., ./config, ~/.ollafree)")
	pf.String(flagMetadata, "", "directory of metadata *.json files (default: bundled)")
	pf.String(flagStrategy, "", "server ordering: "+strategies)
	pf.String(flagLogLevel, "", "debug, info, warn or error")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if cmd == root || cmd.Name() == "help" {
			return nil
		}
		return a.setup(cmd)
	}

	root.AddCommand(
		a.familiesCommand(),
		a.modelsCommand(),
		a.infoCommand(),
		a.serversCommand(),
		a.payloadCommand(),
		a.chatCommand(),
		a.streamCommand(),
	)
	return root
}

// setup loads the configuration with the global flags layered on top and
// builds the logger and client from it.
func (a *Application) setup(cmd *cobra.Command) error {
	if a.client != nil {
		return nil
	}

	configPath, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return err
	}
	cfg, err := config.LoadWithFlags(configPath, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logCfg := buildLoggerConfig(cfg)
	logCfg.Writer = a.errOut
	logInstance, styledLogger, cleanup, err := logger.NewWithTheme(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialise logger: %w", err)
	}
	a.cleanup = cleanup
	a.logger = styledLogger

	slog.SetDefault(logInstance)
	styledLogger.Debug("Initialising", "version", version.Version, "pid", os.Getpid(), "config", cfg.Filename)

	client, err := ollafree.New(
		ollafree.WithConfig(cfg),
		ollafree.WithStyledLogger(styledLogger),
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	a.client = client
	return nil
}

func buildLoggerConfig(cfg *config.Config) *logger.Config {
	return &logger.Config{
		Level:      cfg.Logging.Level,
		FileOutput: cfg.Logging.FileOutput,
		LogDir:     cfg.Logging.LogDir,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Theme:      cfg.Logging.Theme,
	}
}

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// usageArgs marks positional argument errors as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return nil
	}
}
