package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/five82/shakeit/internal/app"
	"github.com/five82/shakeit/internal/prefs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	flagSet := flag.NewFlagSet("shakeit", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	configPath := flagSet.String("config", "", "override config path (optional)")
	prefsPath := flagSet.String("prefs", "", "override preferences path (default "+prefs.DefaultPath()+")")
	envFile := flagSet.String("env-file", "", "dotenv file to load (defaults to ./.env)")
	grid := flagSet.BoolP("grid", "g", false, "show result lists as a grid")
	help := flagSet.BoolP("help", "h", false, "show usage")

	if err := flagSet.Parse(args); err != nil {
		fmt.Fprintf(errOut, "shakeit: %v\n\n%s\n", err, app.Usage)
		return 2
	}
	if *help {
		fmt.Fprintf(out, "%s\n\nflags:\n%s", app.Usage, flagSet.FlagUsages())
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		EnvFile:    *envFile,
		Grid:       *grid,
		Out:        out,
		ErrOut:     errOut,
	}

	if err := app.Run(ctx, opts, flagSet.Args()); err != nil {
		fmt.Fprintf(errOut, "shakeit: %v\n", err)
		if errors.Is(err, app.ErrUsage) {
			return 2
		}
		return 1
	}
	return 0
}
