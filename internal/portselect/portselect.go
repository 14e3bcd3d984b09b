// Package portselect resolves which communication port to hand to the LiDAR
// driver, prompting the operator when discovery is not conclusive.
package portselect

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/lidarview/internal/monitoring"
)

var (
	// ErrTooManyAttempts is returned when MaxAttempts answers were rejected.
	ErrTooManyAttempts = errors.New("too many invalid port selections")

	// ErrInputClosed is returned when the operator input ends before a port
	// was chosen.
	ErrInputClosed = errors.New("input closed before a port was selected")
)

// Selector prompts on Out and reads answers from In.
type Selector struct {
	In  io.Reader
	Out io.Writer

	// MaxAttempts bounds the number of rejected answers when choosing among
	// several candidates. Zero re-prompts until a valid index is entered.
	MaxAttempts int

	reader *bufio.Reader
}

type lineResult struct {
	line string
	err  error
}

// New returns a Selector reading from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Selector {
	return &Selector{In: in, Out: out}
}

// Select returns the port to use:
//   - no candidates: the operator's answer, unvalidated;
//   - one candidate: that candidate, announced without reading input;
//   - several: the candidate at the index the operator enters.
func (s *Selector) Select(ctx context.Context, candidates []string) (string, error) {
	switch len(candidates) {
	case 0:
		fmt.Fprintln(s.Out, "No LiDAR ports detected.")
		fmt.Fprint(s.Out, "Please enter the LiDAR serial port: ")
		line, err := s.readLine(ctx)
		if err != nil {
			return "", err
		}
		monitoring.Logger.WithField("port", line).Debug("Using operator supplied LiDAR port")
		return line, nil

	case 1:
		fmt.Fprintf(s.Out, "Auto-selected LiDAR port: %s\n", candidates[0])
		return candidates[0], nil
	}

	fmt.Fprintln(s.Out, "Detected LiDAR ports:")
	for i, c := range candidates {
		fmt.Fprintf(s.Out, "[%d] %s\n", i, c)
	}

	rejected := 0
	for {
		fmt.Fprint(s.Out, "Please select the LiDAR port number: ")
		line, err := s.readLine(ctx)
		if err != nil {
			return "", err
		}

		idx, ok := parseIndex(line, len(candidates))
		if ok {
			fmt.Fprintf(s.Out, "Selected LiDAR port: %s\n", candidates[idx])
			return candidates[idx], nil
		}

		if _, err := strconv.Atoi(strings.TrimSpace(line)); err != nil {
			fmt.Fprintln(s.Out, "Please enter a valid number.")
		} else {
			fmt.Fprintln(s.Out, "Invalid selection. Please try again.")
		}

		rejected++
		if s.MaxAttempts > 0 && rejected >= s.MaxAttempts {
			return "", fmt.Errorf("%w: %d rejected answers", ErrTooManyAttempts, rejected)
		}
	}
}

// parseIndex parses line as an index into a list of n entries.
func parseIndex(line string, n int) (int, bool) {
	idx, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || idx < 0 || idx >= n {
		return 0, false
	}
	return idx, true
}

// readLine returns the next input line without its terminator. The read runs
// on a helper goroutine so that ctx cancellation is observed while blocked; no
// goroutine is left reading once a line has been returned.
func (s *Selector) readLine(ctx context.Context) (string, error) {
	if s.reader == nil {
		s.reader = bufio.NewReader(s.In)
	}

	done := make(chan lineResult, 1)
	go func() {
		line, err := s.reader.ReadString('\n')
		done <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		line := strings.TrimRight(r.line, "\r\n")
		switch {
		case r.err == nil:
			return line, nil
		case errors.Is(r.err, io.EOF) && r.line != "":
			return line, nil
		case errors.Is(r.err, io.EOF):
			return "", ErrInputClosed
		default:
			return "", fmt.Errorf("failed to read port selection: %w", r.err)
		}
	}
}
