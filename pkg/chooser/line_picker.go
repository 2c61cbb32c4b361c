package chooser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// ErrPickerClosed is returned by NextEvent once the picker has been closed.
var ErrPickerClosed = errors.New("chooser: picker closed")

// LinePicker is a Picker for line-oriented terminals. After the numbered
// list is printed each input line is one event:
//
//	3     select entry 3
//	3!    activate entry 3 (select and accept)
//	      (empty line) accept the selected entry
//	q     cancel
//
// Entries are numbered from 1 on screen. Input is read on a goroutine of
// its own, started by the first NextEvent; Close releases it.
type LinePicker struct {
	in  *bufio.Scanner
	out io.Writer

	count     int
	lines     chan scanned
	start     sync.Once
	done      chan struct{}
	closeOnce sync.Once
}

type scanned struct {
	text string
	err  error
}

// NewLinePicker reads events from in and writes the list and prompts to out.
func NewLinePicker(in io.Reader, out io.Writer) *LinePicker {
	return &LinePicker{
		in:    bufio.NewScanner(in),
		out:   out,
		lines: make(chan scanned),
		done:  make(chan struct{}),
	}
}

// Close stops the input reader. A read already blocked on the underlying
// reader finishes first; nothing is consumed after that.
func (p *LinePicker) Close() error {
	p.closeOnce.Do(func() { close(p.done) })
	return nil
}

func (p *LinePicker) Show(labels []string) error {
	p.count = len(labels)
	fmt.Fprintln(p.out, "Select a sub-volume:")
	for i, l := range labels {
		if _, err := fmt.Fprintf(p.out, "  %2d) %s\n", i+1, l); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(p.out, "number, number! to open, enter to accept, q to cancel: ")
	return err
}

func (p *LinePicker) NextEvent(ctx context.Context) (Event, error) {
	p.start.Do(func() { go p.scan() })

	for {
		var line scanned
		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		case <-p.done:
			return Event{}, ErrPickerClosed
		case line = <-p.lines:
		}
		if line.err != nil {
			return Event{}, line.err
		}

		ev, ok := parseLine(line.text)
		if !ok {
			fmt.Fprintf(p.out, "unrecognised input %q: ", line.text)
			continue
		}
		return ev, nil
	}
}

// scan feeds input lines to NextEvent until the picker is closed. End of
// input reads as a cancel.
func (p *LinePicker) scan() {
	for p.in.Scan() {
		if !p.send(scanned{text: p.in.Text()}) {
			return
		}
	}
	if err := p.in.Err(); err != nil {
		p.send(scanned{err: err})
		return
	}
	p.send(scanned{text: "q"})
}

func (p *LinePicker) send(s scanned) bool {
	select {
	case p.lines <- s:
		return true
	case <-p.done:
		return false
	}
}

func parseLine(s string) (Event, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return Event{Kind: EventConfirm}, true
	case "q", "quit", "cancel":
		return Event{Kind: EventCancel}, true
	}

	kind := EventSelect
	if strings.HasSuffix(s, "!") {
		kind = EventActivate
		s = strings.TrimSuffix(s, "!")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Event{}, false
	}
	return Event{Kind: kind, Index: n - 1}, true
}
