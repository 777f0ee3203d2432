// Command radiomem reads and writes the memory channels of a radio and
// checks or converts channel tables.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/moffa90/go-radiomem/port"
	"github.com/moffa90/go-radiomem/session"
)

// radioPort is a link to the radio that can be closed.
type radioPort interface {
	session.Port
	io.Closer
}

type app struct {
	stdout   io.Writer
	stderr   io.Writer
	log      *zap.SugaredLogger
	opts     *options
	openPort func(ctx context.Context, o *options) (radioPort, error)
}

func openPort(ctx context.Context, o *options) (radioPort, error) {
	if o.address != "" {
		return port.Dial(ctx, o.address)
	}
	return port.OpenSerial(o.device, port.WithBaudRate(o.speed))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr, openPort)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer,
	open func(ctx context.Context, o *options) (radioPort, error)) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, errHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}

	log := newLogger(stderr, opts.verbose, opts.quiet)
	defer func() { _ = log.Sync() }()

	a := &app{
		stdout:   stdout,
		stderr:   stderr,
		log:      log,
		opts:     opts,
		openPort: open,
	}

	switch opts.action {
	case actionRead:
		err = a.readRadio(ctx)
	case actionWrite:
		err = a.writeRadio(ctx)
	case actionCheck:
		err = a.checkData()
	case actionConvert:
		err = a.convert()
	default:
		fmt.Fprintln(stdout, "No action specified. Use --help for options.")
		return 0
	}

	if err != nil {
		log.Errorw("failed", "error", err)
		return 1
	}
	return 0
}
