// Package term implements operator confirmation on the terminal with a
// bounded wait. A timeout is treated exactly like an explicit "no".
package term

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/example/cruisebot/internal/ports/secondary"
)

// Confirmer implements secondary.Confirmer over an io.Reader/Writer pair
// (stdin/stdout in production).
type Confirmer struct {
	in      io.Reader
	out     io.Writer
	timeout time.Duration
}

// NewConfirmer creates a terminal confirmer with the given wait bound.
func NewConfirmer(in io.Reader, out io.Writer, timeout time.Duration) *Confirmer {
	return &Confirmer{in: in, out: out, timeout: timeout}
}

// Confirm shows the preview, asks prompt, and waits up to the bound for a
// yes/no answer. Anything other than an explicit yes (timeout, EOF,
// cancellation included) is false.
func (c *Confirmer) Confirm(ctx context.Context, prompt, preview string) (bool, error) {
	if preview != "" {
		fmt.Fprintln(c.out, preview)
	}
	fmt.Fprintf(c.out, "%s [y/N] (auto-cancel in %s): ", prompt, c.timeout)

	answers := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		if scanner.Scan() {
			answers <- scanner.Text()
			return
		}
		answers <- ""
	}()

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out, "cancelled")
		return false, ctx.Err()
	case <-timer.C:
		fmt.Fprintln(c.out)
		color.New(color.FgYellow).Fprintln(c.out, "Timed out waiting for confirmation. Nothing changed.")
		return false, nil
	case answer := <-answers:
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true, nil
		default:
			fmt.Fprintln(c.out, "Cancelled. Nothing changed.")
			return false, nil
		}
	}
}

// Ensure Confirmer implements the interface
var _ secondary.Confirmer = (*Confirmer)(nil)
