package offers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformed marks a "D" line that could not be turned into an Offer.
var ErrMalformed = errors.New("malformed offer line")

// ParseState is the accumulator threaded through Step. The zero value is the
// state at the start of a file.
type ParseState struct {
	Agent string // most recent agent header, "" before the first one
	Line  int    // number of lines consumed so far
}

// Step consumes one raw line. It returns the next state and, for an accepted
// "D" line, the offer. Header lines, blank lines, lines before the first
// header and non-"D" lines yield (next, nil, nil). A "D" line that does not
// carry exactly 24 numeric values yields an error wrapping ErrMalformed; the
// returned state is still valid and parsing may continue with it.
func Step(state ParseState, line string) (ParseState, *Offer, error) {
	state.Line++
	line = strings.TrimSpace(line)

	if agent, ok := agentHeader(line); ok {
		state.Agent = agent
		return state, nil, nil
	}
	if line == "" || state.Agent == "" {
		return state, nil, nil
	}

	parts := strings.Split(line, ",")
	if len(parts) < 2 {
		return state, nil, fmt.Errorf("line %d: %w: missing record type", state.Line, ErrMalformed)
	}
	name := strings.TrimSpace(parts[0])
	typ := strings.TrimSpace(parts[1])
	if typ != "D" {
		return state, nil, nil
	}

	raw := parts[2:]
	if len(raw) != Hours {
		return state, nil, fmt.Errorf("line %d: %w: expected %d values, got %d", state.Line, ErrMalformed, Hours, len(raw))
	}
	o := &Offer{Agent: state.Agent, Name: name, Type: typ}
	for i, v := range raw {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return state, nil, fmt.Errorf("line %d: %w: value %d %q", state.Line, ErrMalformed, i+1, strings.TrimSpace(v))
		}
		o.Values[i] = f
	}
	return state, o, nil
}

// agentHeader returns the agent named by an "AGENTE:" or "AGENT:" line: the
// text between the first and second colon, so trailing ":"-separated fields
// are not part of the name.
func agentHeader(line string) (string, bool) {
	for _, prefix := range []string{"AGENTE:", "AGENT:"} {
		if strings.HasPrefix(line, prefix) {
			name, _, _ := strings.Cut(line[len(prefix):], ":")
			return strings.TrimSpace(name), true
		}
	}
	return "", false
}

// DropFunc is told about every line Step rejected.
type DropFunc func(line int, text string, err error)

// Parse folds Step over every line of r starting from state. It returns the
// accepted offers and the final state, so a caller can resume parsing a
// continuation of the same input. Only read errors are returned.
func Parse(r io.Reader, state ParseState, onDrop DropFunc) ([]Offer, ParseState, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []Offer
	for sc.Scan() {
		text := sc.Text()
		next, o, err := Step(state, text)
		state = next
		if err != nil {
			if onDrop != nil {
				onDrop(state.Line, text, err)
			}
			continue
		}
		if o != nil {
			out = append(out, *o)
		}
	}
	if err := sc.Err(); err != nil {
		return out, state, fmt.Errorf("scan line %d: %w", state.Line+1, err)
	}
	return out, state, nil
}
