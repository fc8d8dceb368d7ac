// Package cli implements the shuffleplay command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/tejashwikalptaru/shuffleplay/internal/app"
	"github.com/tejashwikalptaru/shuffleplay/internal/config"
)

// Options are accepted by every command.
type Options struct {
	Config      string  `short:"c" long:"config" description:"TOML configuration file (created with defaults if missing)"`
	EnvFile     string  `long:"env-file" default:".env" description:"Optional dotenv file read before SHUFFLEPLAY_* variables"`
	LogLevel    *string `long:"log-level" description:"Log level: debug, info, warn, error"`
	Format      string  `short:"f" long:"format" default:"text" choice:"text" choice:"json" description:"Report format"`
	MetricsFile *string `long:"metrics-file" description:"Write Prometheus text metrics to this file"`
}

// SimulationFlags override the [simulation] and [library] sections of the configuration.
type SimulationFlags struct {
	Songs      *int     `short:"n" long:"songs" description:"Simulate items 1..N"`
	Plays      *int     `short:"p" long:"plays" description:"Number of plays per run"`
	Randomness *float64 `short:"r" long:"randomness" description:"Randomness coefficient"`
	Buffer     *int     `short:"b" long:"buffer" description:"Minimum plays before an item may repeat"`
	MinRec     *float64 `short:"m" long:"min-rec" description:"Minimum recycle-bin proportion in [0,1]"`
	Verbose    bool     `short:"v" long:"verbose" description:"Record and print the playback trace"`
	Seed       *uint64  `short:"s" long:"seed" description:"Seed for a reproducible run"`
	Library    *string  `short:"l" long:"library" description:"Simulate the audio files under this directory"`
}

func (f *SimulationFlags) apply(cfg *config.Config) {
	if f.Songs != nil {
		cfg.Simulation.Songs = *f.Songs
	}
	if f.Plays != nil {
		cfg.Simulation.Plays = *f.Plays
	}
	if f.Randomness != nil {
		cfg.Simulation.Randomness = *f.Randomness
	}
	if f.Buffer != nil {
		cfg.Simulation.Buffer = *f.Buffer
	}
	if f.MinRec != nil {
		cfg.Simulation.MinRec = *f.MinRec
	}
	if f.Verbose {
		cfg.Simulation.Verbose = true
	}
	if f.Seed != nil {
		cfg.Simulation.Seed = *f.Seed
	}
	if f.Library != nil {
		cfg.Library.Path = *f.Library
	}
}

// Commands is the root of the command tree.
type Commands struct {
	Options

	Run     RunCmd     `command:"run" description:"Simulate one shuffle-play run"`
	Batch   BatchCmd   `command:"batch" description:"Simulate independent runs concurrently and aggregate them"`
	Window  WindowCmd  `command:"window" description:"Print the recycle window for each list length"`
	Version VersionCmd `command:"version" description:"Print version information"`
}

// NewCommands creates the command tree writing reports to out.
func NewCommands(out io.Writer) *Commands {
	c := &Commands{}
	env := &environment{opts: &c.Options, out: out}
	c.Run.env = env
	c.Batch.env = env
	c.Window.env = env
	c.Version.env = env
	return c
}

// Main parses os.Args and runs the selected command, returning the process exit code.
func Main() int {
	parser := flags.NewParser(NewCommands(os.Stdout), flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		return 1
	}
	return 0
}

// environment carries what commands share: global options and the output stream.
type environment struct {
	opts *Options
	out  io.Writer
}

// load resolves the configuration: file, then environment, then flags.
func (e *environment) load(apply func(*config.Config)) (*config.Config, error) {
	cfg, err := config.LoadConfig(e.opts.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.LoadEnv(e.opts.EnvFile); err != nil {
		return nil, err
	}
	if e.opts.LogLevel != nil {
		cfg.Logging.Level = *e.opts.LogLevel
	}
	if e.opts.MetricsFile != nil {
		cfg.Metrics.Textfile = *e.opts.MetricsFile
	}
	if apply != nil {
		apply(cfg)
	}
	return cfg, cfg.Validate()
}

// withApp builds the application, runs fn and shuts the application down.
func (e *environment) withApp(apply func(*config.Config), fn func(context.Context, *app.Application) error) error {
	cfg, err := e.load(apply)
	if err != nil {
		return err
	}
	application, err := app.NewApplication(cfg, app.Options{})
	if err != nil {
		return err
	}

	runErr := fn(context.Background(), application)
	if err := application.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (e *environment) render(v interface{ WriteText(io.Writer) error }) error {
	if e.opts.Format == "json" {
		return app.WriteJSON(e.out, v)
	}
	return v.WriteText(e.out)
}

// RunCmd simulates one run.
type RunCmd struct {
	SimulationFlags
	env *environment
}

// Execute implements flags.Commander.
func (c *RunCmd) Execute(_ []string) error {
	return c.env.withApp(c.apply, func(ctx context.Context, a *app.Application) error {
		report, err := a.RunSingle(ctx)
		if err != nil {
			return err
		}
		return c.env.render(report)
	})
}

// BatchCmd simulates several independent runs.
type BatchCmd struct {
	SimulationFlags
	Runs    *int `long:"runs" description:"Number of independent runs"`
	Workers *int `short:"w" long:"workers" description:"Concurrent workers"`
	env     *environment
}

// Execute implements flags.Commander.
func (c *BatchCmd) Execute(_ []string) error {
	apply := func(cfg *config.Config) {
		c.apply(cfg)
		if c.Runs != nil {
			cfg.Batch.Runs = *c.Runs
		}
		if c.Workers != nil {
			cfg.Batch.Workers = *c.Workers
		}
	}
	return c.env.withApp(apply, func(ctx context.Context, a *app.Application) error {
		report, err := a.RunBatch(ctx)
		if err != nil {
			return err
		}
		return c.env.render(report)
	})
}

// WindowCmd prints recycle windows for list lengths 1..MaxSongs.
type WindowCmd struct {
	SimulationFlags
	MaxSongs int `long:"max-songs" default:"50" description:"Largest list length to tabulate"`
	env      *environment
}

// Execute implements flags.Commander.
func (c *WindowCmd) Execute(_ []string) error {
	return c.env.withApp(c.apply, func(_ context.Context, a *app.Application) error {
		table, err := a.WindowTable(c.MaxSongs)
		if err != nil {
			return err
		}
		if c.env.opts.Format == "json" {
			return app.WriteJSON(c.env.out, table)
		}
		return app.WriteWindowTable(c.env.out, table)
	})
}

// VersionCmd prints build information.
type VersionCmd struct {
	env *environment
}

// Execute implements flags.Commander.
func (c *VersionCmd) Execute(_ []string) error {
	info := app.GetVersionInfo()
	if c.env.opts.Format == "json" {
		return app.WriteJSON(c.env.out, info)
	}
	_, err := fmt.Fprintln(c.env.out, info.String())
	return err
}
