// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lassandro/lc3vm/pkg/console"
	"github.com/lassandro/lc3vm/pkg/encoding"
	"github.com/lassandro/lc3vm/pkg/image"
	"github.com/lassandro/lc3vm/pkg/machine"
)

var ErrCycleLimit = errors.New("cycle limit reached")

type options struct {
	timeout   time.Duration
	entry     string
	maxCycles uint64
	verbose   bool
}

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func newCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "lc3vm [flags] IMAGE [IMAGE...]",
		Short:         "Run LC-3 object images",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(
				cmd.Context(), os.Interrupt, syscall.SIGTERM,
			)
			defer stop()

			return run(ctx, args, &opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.Flags()
	flags.DurationVar(
		&opts.timeout, "timeout", machine.DEFAULT_TIMEOUT,
		"Longest wait for a key in GETC and IN before reading NUL",
	)
	flags.StringVar(
		&opts.entry, "entry", "",
		"Start address overriding the first image's origin, e.g. x3000",
	)
	flags.Uint64Var(
		&opts.maxCycles, "max-cycles", 0,
		"Stop after this many instructions (0 runs until HALT)",
	)
	flags.BoolVarP(
		&opts.verbose, "verbose", "v", false,
		"Trace every instruction to stderr",
	)

	return cmd
}

func loadImages(filenames []string) ([]*image.Image, error) {
	images := make([]*image.Image, 0, len(filenames))

	for _, filename := range filenames {
		img, err := image.ReadFile(filename)

		if err != nil {
			return nil, err
		}

		images = append(images, img)
	}

	return images, nil
}

func run(
	ctx context.Context,
	filenames []string,
	opts *options,
	stdin io.Reader,
	stdout io.Writer,
) (err error) {
	images, err := loadImages(filenames)

	if err != nil {
		return err
	}

	if file, ok := stdin.(*os.File); ok {
		restore, rawErr := console.MakeRaw(file)

		if rawErr != nil {
			return rawErr
		}

		defer func() {
			if restoreErr := restore(); err == nil {
				err = restoreErr
			}
		}()
	}

	stream := console.NewStream(stdin, stdout)
	defer stream.Close()

	mc := machine.New(images[0], stream)
	mc.Timeout = opts.timeout

	for _, img := range images[1:] {
		mc.Memory.Load(img)
	}

	if opts.entry != "" {
		entry, err := encoding.DecodeHex(opts.entry)

		if err != nil {
			return fmt.Errorf("--entry %q: %w", opts.entry, err)
		}

		mc.Registers.SetPC(entry)
	}

	if opts.verbose {
		mc.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	finished := make(chan struct{})
	defer close(finished)

	// Wake a pending GETC/IN when interrupted
	go func() {
		select {
		case <-ctx.Done():
			stream.Close()
		case <-finished:
		}
	}()

	err = execute(ctx, mc, opts.maxCycles)

	if ferr := stream.Flush(); err == nil {
		err = ferr
	}

	return err
}

func execute(ctx context.Context, mc *machine.Machine, maxCycles uint64) error {
	if maxCycles == 0 {
		return mc.Run(ctx)
	}

	for mc.Cycles() < maxCycles {
		if err := ctx.Err(); err != nil {
			return err
		}

		status, err := mc.Step()

		if err != nil {
			return err
		} else if status != machine.StatusRunning {
			return nil
		}
	}

	return fmt.Errorf("%w after %d instructions", ErrCycleLimit, maxCycles)
}

func lc3vm() int {
	if err := newCommand().ExecuteContext(context.Background()); err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}

		log.Println(err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(lc3vm())
}
