package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/cocosip/go-jpug-codec/jpug/common"
	"github.com/cocosip/go-jpug-codec/jpug/container"
)

type operation int

const (
	opSwitchMode operation = iota
	opChangeParams
	opShow
	opEncode
	opDecode
	opStats
	opExit
	opChangeType
)

var operationNames = []struct {
	op   operation
	name string
}{
	{opSwitchMode, "Switch mode"},
	{opChangeParams, "Change parameters"},
	{opShow, "Show an image"},
	{opEncode, "Encode"},
	{opDecode, "Decode"},
	{opStats, "Show statistics"},
	{opExit, "Exit"},
	{opChangeType, "Change sample type"},
}

// Shell runs the interactive menu over a line-oriented input.
type Shell struct {
	session     *Session
	in          *bufio.Scanner
	out         io.Writer
	interactive bool
}

// NewShell creates a shell. Menus and prompts are written only when
// interactive is set; results are always written.
func NewShell(session *Session, in io.Reader, out io.Writer, interactive bool) *Shell {
	return &Shell{
		session:     session,
		in:          bufio.NewScanner(in),
		out:         out,
		interactive: interactive,
	}
}

// isTerminal reports whether r is a terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run reads operations until Exit or end of input.
func (sh *Shell) Run() error {
	for {
		if sh.interactive {
			sh.menu()
		}

		line, ok := sh.ask("< ")
		if !ok {
			return sh.in.Err()
		}

		n, err := strconv.Atoi(line)
		if err != nil {
			sh.say("Invalid operation")
			continue
		}

		switch op := operation(n); op {
		case opSwitchMode:
			sh.say(fmt.Sprintf(msgSwitchMode, sh.session.SwitchMode()))
		case opChangeParams:
			sh.changeParams()
		case opShow:
			sh.show()
		case opEncode, opDecode:
			sh.transcode(op)
		case opStats:
			sh.say(fmt.Sprintf(msgStats, sh.session.Stats()))
		case opChangeType:
			sh.changeType()
		case opExit:
			sh.say(msgExit)
			return nil
		default:
			sh.say("Operation not supported")
		}
	}
}

func (sh *Shell) menu() {
	cfg := sh.session.Config()
	line := strings.Repeat("-", 55)
	fmt.Fprintln(sh.out, line)
	fmt.Fprintf(sh.out, "Active mode: %s\n", sh.session.Mode())
	fmt.Fprintf(sh.out, "Active parameters: F = %d, d = %d, type = %s\n", cfg.BlockSize, cfg.Cutoff, cfg.SampleType)
	fmt.Fprintln(sh.out, line)
	fmt.Fprintln(sh.out, "Choose an operation:")
	for _, o := range operationNames {
		fmt.Fprintf(sh.out, "\t%d. %s\n", o.op, o.name)
	}
}

func (sh *Shell) ask(prompt string) (string, bool) {
	if sh.interactive {
		fmt.Fprint(sh.out, prompt)
	}
	if !sh.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(sh.in.Text()), true
}

func (sh *Shell) say(msg string) {
	fmt.Fprintf(sh.out, "> %s\n", msg)
}

func (sh *Shell) askInt(prompt, name string) (int, bool) {
	line, ok := sh.ask(prompt)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(line)
	if err != nil {
		sh.say("Invalid " + name)
		return 0, false
	}
	return v, true
}

func (sh *Shell) changeParams() {
	blockSize, ok := sh.askInt("< Enter F: ", "F")
	if !ok {
		return
	}
	if blockSize <= 0 {
		sh.say("F must be greater than 0")
		return
	}

	cutoff, ok := sh.askInt("< Enter d: ", "d")
	if !ok {
		return
	}
	if cutoff < 0 || cutoff > 2*blockSize-1 {
		sh.say(fmt.Sprintf("d must be between 0 and 2F - 1 = %d", 2*blockSize-1))
		return
	}
	if cutoff == 0 {
		sh.say(msgZeroCutoff)
	}

	if err := sh.session.SetParams(blockSize, cutoff); err != nil {
		sh.session.log.Debug("change parameters failed", "err", err)
		sh.say(fmt.Sprintf(msgInvalidParams, blockSize, cutoff))
		return
	}
	sh.say(fmt.Sprintf(msgChangeParams, blockSize, cutoff))
}

func (sh *Shell) changeType() {
	line, ok := sh.ask("< Enter sample type (int8, float16, float32): ")
	if !ok {
		return
	}

	var clipped bool
	t, err := common.ParseSampleType(line)
	if err == nil {
		clipped, err = sh.session.SetSampleType(t)
	}
	if err != nil {
		sh.session.log.Debug("change sample type failed", "err", err)
		sh.say(fmt.Sprintf(msgInvalidType, line))
		return
	}
	sh.say(fmt.Sprintf(msgChangeType, t))
	if clipped {
		sh.say(msgInt8Range)
	}
}

func (sh *Shell) show() {
	path, ok := sh.ask("< Enter path: ")
	if !ok {
		return
	}

	img, err := sh.session.Show(path)
	if err != nil {
		sh.session.log.Debug("show failed", "path", path, "err", err)
		sh.say(errorMessage(err, path))
		return
	}

	size := img.Bounds().Size()
	sh.say(fmt.Sprintf("Image '%s': %dx%d, %s", path, size.X, size.Y, sh.session.Mode()))
}

func (sh *Shell) transcode(op operation) {
	path, ok := sh.ask("< Enter path: ")
	if !ok {
		return
	}

	var (
		out string
		err error
		msg = msgEncode
	)
	if op == opEncode {
		out, err = sh.session.Encode(path, "")
	} else {
		out, err = sh.session.Decode(path, "")
		msg = msgDecode
	}
	if err != nil {
		sh.session.log.Debug("operation failed", "path", path, "err", err)
		sh.say(errorMessage(err, path))
		return
	}
	sh.say(fmt.Sprintf(msg, out))
}

// modeNames lists the accepted -mode values.
var modeNames = []string{container.Luminance.String(), container.Color.String()}
