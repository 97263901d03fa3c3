package workload

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/basak-tepe/scheduler/sim"
)

// textLine is one non-blank line of a text input source.
type textLine struct {
	num    int // 1-based line number in the source
	fields []string
}

// readLines splits r into whitespace-separated fields, skipping blank lines.
// Read failures wrap sim.ErrResourceUnavailable.
func readLines(r io.Reader, source string) ([]textLine, error) {
	var lines []textLine
	scanner := bufio.NewScanner(r)
	num := 0
	for scanner.Scan() {
		num++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		lines = append(lines, textLine{num: num, fields: fields})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", sim.ErrResourceUnavailable, source, err)
	}
	return lines, nil
}

// parseTagged parses tokens like "instr12" or "P3": a fixed prefix followed by a
// non-negative decimal number.
func parseTagged(token, prefix string) (int, error) {
	digits, ok := strings.CutPrefix(token, prefix)
	if !ok || digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 0, fmt.Errorf("expected %s<N>, got %q", prefix, token)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("expected %s<N>, got %q", prefix, token)
	}
	return n, nil
}

// malformed reports a bad line of a text source.
func malformed(source string, l textLine, format string, args ...any) error {
	return fmt.Errorf("%w: %s line %d: %s", sim.ErrMalformedInput, source, l.num, fmt.Sprintf(format, args...))
}
