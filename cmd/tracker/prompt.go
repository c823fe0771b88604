package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
	"github.com/FireFighterProject/fire-dispatch/module/core/tracking"
)

type session interface {
	Start(ctx context.Context) error
	Acknowledge(ctx context.Context) error
	End(confirmed bool) error
	Status() tracking.Status
}

const help = "commands: start | ack | status | end | quit"

type prompt struct {
	s   session
	in  *bufio.Scanner
	out io.Writer
}

func newPrompt(s session, in io.Reader, out io.Writer) *prompt {
	return &prompt{s: s, in: bufio.NewScanner(in), out: out}
}

// loop reads commands until the session ends, input closes or ctx is done.
func (p *prompt) loop(ctx context.Context) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for p.in.Scan() {
			lines <- strings.TrimSpace(p.in.Text())
		}
	}()

	p.start(ctx)
	fmt.Fprintln(p.out, help)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if done := p.handle(ctx, line, lines); done {
				return nil
			}
		}
	}
}

func (p *prompt) handle(ctx context.Context, line string, lines <-chan string) bool {
	switch line {
	case "":
	case "start":
		p.start(ctx)
	case "ack":
		if err := p.s.Acknowledge(ctx); err != nil {
			fmt.Fprintf(p.out, "cannot start sharing: %v\n", err)
			return false
		}
		fmt.Fprintln(p.out, "sharing position")
	case "status":
		p.printStatus()
	case "end":
		fmt.Fprint(p.out, "end position sharing? (y/n) ")
		var answer string
		select {
		case <-ctx.Done():
			return true
		case a, ok := <-lines:
			if !ok {
				return true
			}
			answer = a
		}
		if err := p.s.End(strings.EqualFold(answer, "y")); err != nil {
			if errors.Is(err, domain.ErrEndNotConfirmed) {
				fmt.Fprintln(p.out, "still sharing")
				return false
			}
			fmt.Fprintf(p.out, "end failed: %v\n", err)
			return false
		}
		fmt.Fprintln(p.out, "sharing ended")
		return true
	case "quit":
		return true
	default:
		fmt.Fprintln(p.out, help)
	}
	return false
}

func (p *prompt) start(ctx context.Context) {
	if err := p.s.Start(ctx); err != nil {
		fmt.Fprintf(p.out, "position unavailable: %v (type start to retry)\n", err)
		return
	}
	p.printStatus()
	fmt.Fprintln(p.out, "type ack to start sharing")
}

func (p *prompt) printStatus() {
	st := p.s.Status()
	fmt.Fprintf(p.out, "state: %s\n", st.State)
	if st.Position != nil {
		fmt.Fprintf(p.out, "position: %.6f, %.6f\n", st.Position.Point.Lat, st.Position.Point.Lng)
	}
	if st.State == tracking.Active {
		fmt.Fprintf(p.out, "speed: %.1f km/h\n", st.SpeedKmh)
		if st.RemainingMeters > 0 {
			fmt.Fprintf(p.out, "remaining: %.1f km, eta %s\n", st.RemainingMeters/1000, st.ETA.Round(time.Second))
		}
		fmt.Fprintf(p.out, "pushes: %d (%d failed)\n", st.Pushes, st.PushFailures)
	}
	if st.LastError != nil {
		fmt.Fprintf(p.out, "warning: %v\n", st.LastError)
	}
}
