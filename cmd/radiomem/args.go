package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pborman/getopt"

	"github.com/moffa90/go-radiomem/codec"
)

type action int

const (
	actionNone action = iota
	actionRead
	actionWrite
	actionCheck
	actionConvert
)

type options struct {
	verbose    bool
	quiet      bool
	device     string
	address    string
	speed      uint
	file       string
	dump       string
	layout     *codec.Layout
	timeout    time.Duration
	retries    int
	lenient    bool
	action     action
	noProgress bool
}

var errHelp = errors.New("help requested")

func aboutStr() string {
	return "radiomem - radio memory channel manager\n\n" +
		"  radiomem --read-radio --port /dev/ttyUSB0 --speed 38400 --file output.csv\n" +
		"  radiomem --write-radio --port /dev/ttyUSB0 --speed 38400 --file input.csv\n" +
		"  radiomem --check-data --file data.csv\n" +
		"  radiomem --convert --dump memory.bin --file output.csv\n"
}

// parseArgs parses args, args[0] being the program name. Usage is written
// to w when the arguments are wrong or help is requested.
func parseArgs(args []string, w io.Writer) (*options, error) {
	set := getopt.New()
	set.SetProgram("radiomem")

	h := set.BoolLong("help", 'h', "display help")
	v := set.BoolLong("verbose", 'v', "Enable verbose (debug) logging")
	q := set.BoolLong("quiet", 'q', "Only log errors")
	p := set.StringLong("port", 'p', "/dev/ttyUSB0", "Serial device of the radio")
	a := set.StringLong("address", 'a', "", "Connect to a serial bridge at host:port instead of a serial device")
	s := set.UintLong("speed", 's', 38400, "Speed for the serial port")
	f := set.StringLong("file", 'f', "output.csv", "CSV file to save/read memory data")
	d := set.StringLong("dump", 'd', "", "Binary memory dump file")
	l := set.StringLong("layout", 'l', codec.Reference.Name, "Memory layout: "+fmt.Sprint(codec.LayoutNames()))
	t := set.UintLong("timeout", 't', 2000, "Response timeout in milliseconds")
	n := set.IntLong("retries", 'n', 3, "Attempts per request")
	ln := set.BoolLong("lenient", 0, "Ignore unknown CSV columns")
	np := set.BoolLong("no-progress", 0, "Do not show a progress bar")
	r := set.BoolLong("read-radio", 0, "Read from radio")
	wr := set.BoolLong("write-radio", 0, "Write to radio")
	c := set.BoolLong("check-data", 0, "Check data in the file")
	cv := set.BoolLong("convert", 0, "Convert a binary dump to CSV")

	usage := func() {
		fmt.Fprintln(w, aboutStr())
		set.PrintUsage(w)
	}

	if err := set.Getopt(args, nil); err != nil {
		usage()
		return nil, err
	}
	if *h {
		usage()
		return nil, errHelp
	}
	if *q && *v {
		usage()
		return nil, errors.New("--quiet and --verbose are mutually exclusive")
	}
	if set.NArgs() > 0 {
		usage()
		return nil, fmt.Errorf("unexpected argument %q", set.Arg(0))
	}

	opts := &options{
		verbose:    *v,
		quiet:      *q,
		device:     *p,
		address:    *a,
		speed:      *s,
		file:       *f,
		dump:       *d,
		timeout:    time.Duration(*t) * time.Millisecond,
		retries:    *n,
		lenient:    *ln,
		noProgress: *np,
	}

	layout, err := codec.Lookup(*l)
	if err != nil {
		return nil, err
	}
	opts.layout = layout

	chosen := 0
	for _, sel := range []struct {
		set bool
		a   action
	}{{*r, actionRead}, {*wr, actionWrite}, {*c, actionCheck}, {*cv, actionConvert}} {
		if sel.set {
			chosen++
			opts.action = sel.a
		}
	}
	if chosen > 1 {
		usage()
		return nil, errors.New("only one of --read-radio, --write-radio, --check-data and --convert may be given")
	}
	if opts.action == actionConvert && opts.dump == "" {
		return nil, errors.New("--convert needs --dump")
	}
	if opts.timeout <= 0 {
		return nil, errors.New("--timeout must be positive")
	}

	return opts, nil
}
