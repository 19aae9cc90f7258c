// Command jpug encodes images to JPUG containers and decodes them back.
//
// Usage:
//
//	jpug                          interactive session
//	jpug encode [flags] image...  write <base>_<MODE>.jpug
//	jpug decode [flags] file...   write <base>.bmp
//	jpug stats [flags]            fraction of coefficients saved
//	jpug info file...             describe containers
//	jpug dicom [flags] file.dcm   encode every frame of an 8-bit DICOM file
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cocosip/go-jpug-codec/jpug/channel"
	"github.com/cocosip/go-jpug-codec/jpug/common"
	"github.com/cocosip/go-jpug-codec/jpug/container"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options are the flags shared by the subcommands.
type options struct {
	mode       string
	blockSize  int
	cutoff     int
	sampleType string
	out        string
	verbose    bool
}

func (o *options) register(fs *flag.FlagSet, withMode, withOut bool) {
	def := channel.DefaultConfig()
	fs.IntVar(&o.blockSize, "F", def.BlockSize, "block size")
	fs.IntVar(&o.cutoff, "d", def.Cutoff, "number of antidiagonals kept (0..2F-1)")
	fs.StringVar(&o.sampleType, "type", def.SampleType.String(), "coefficient type: int8, float16 or float32")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	if withMode {
		fs.StringVar(&o.mode, "mode", DefaultMode.String(), "colour mode: "+strings.Join(modeNames, " or "))
	}
	if withOut {
		fs.StringVar(&o.out, "o", "", "output path (single input only)")
	}
}

func (o *options) config() (channel.Config, error) {
	t, err := common.ParseSampleType(o.sampleType)
	if err != nil {
		return channel.Config{}, err
	}
	cfg := channel.Config{BlockSize: o.blockSize, Cutoff: o.cutoff, SampleType: t}
	return cfg, cfg.Validate()
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return runShell(nil, stdin, stdout, stderr)
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "shell":
		return runShell(rest, stdin, stdout, stderr)
	case "encode", "decode", "stats", "info", "dicom":
		return runCommand(cmd, rest, stdout, stderr)
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "jpug: unknown command %q\n", cmd)
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `usage:
  jpug [shell [flags]]            interactive session
  jpug encode [flags] image...    encode images to <base>_<MODE>.jpug
  jpug decode [-o out] file...    decode containers to <base>.bmp
  jpug stats [-F n] [-d n]        fraction of coefficients saved
  jpug info file...               describe containers
  jpug dicom [flags] file.dcm     encode the frames of an 8-bit DICOM file`)
}

func runShell(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var o options
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	fs.SetOutput(stderr)
	o.register(fs, true, false)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	log := newLogger(stderr, o.verbose)
	session, err := newSession(&o, log)
	if err != nil {
		log.Error("invalid options", "err", err)
		return exitUsage
	}

	if err := NewShell(session, stdin, stdout, isTerminal(stdin)).Run(); err != nil {
		log.Error("reading input", "err", err)
		return exitError
	}
	return exitOK
}

func newSession(o *options, log *slog.Logger) (*Session, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	mode := DefaultMode
	if o.mode != "" {
		if mode, err = container.ParseMode(o.mode); err != nil {
			return nil, err
		}
	}
	if cfg.Cutoff == 0 {
		log.Warn(msgZeroCutoff)
	}
	if !cfg.SampleType.IsFloat() {
		log.Warn(msgInt8Range)
	}
	return NewSession(mode, cfg, log)
}

func runCommand(cmd string, args []string, stdout, stderr io.Writer) int {
	var o options
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	o.register(fs, cmd == "encode", cmd == "encode" || cmd == "decode")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	log := newLogger(stderr, o.verbose)
	session, err := newSession(&o, log)
	if err != nil {
		log.Error("invalid options", "err", err)
		return exitUsage
	}

	inputs := fs.Args()
	if cmd == "stats" {
		if len(inputs) != 0 {
			log.Error("stats takes no arguments")
			return exitUsage
		}
		fmt.Fprintf(stdout, msgStats+"\n", session.Stats())
		return exitOK
	}
	if len(inputs) == 0 {
		log.Error("missing input files", "command", cmd)
		return exitUsage
	}
	if o.out != "" && len(inputs) > 1 {
		log.Error("-o needs exactly one input", "inputs", len(inputs))
		return exitUsage
	}

	code := exitOK
	for _, path := range inputs {
		if err := runOne(session, cmd, path, o.out, stdout); err != nil {
			log.Error(errorMessage(err, path), "command", cmd, "path", path, "err", err)
			code = exitError
		}
	}
	return code
}

func runOne(session *Session, cmd, path, out string, stdout io.Writer) error {
	switch cmd {
	case "encode":
		dst, err := session.Encode(path, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, msgEncode+"\n", dst)
	case "decode":
		dst, err := session.Decode(path, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, msgDecode+"\n", dst)
	case "info":
		c, err := session.Info(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s: %s, saved %g\n", path, c, c.Stats())
	case "dicom":
		paths, err := session.EncodeDICOM(path)
		for _, dst := range paths {
			fmt.Fprintf(stdout, msgEncode+"\n", dst)
		}
		return err
	default:
		return errors.New("unknown command " + cmd)
	}
	return nil
}
