package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/physiosim/internal/pkpd"
)

// parseStack reads "testosterone:250:2x/wk:enanthate,dianabol:25:ED".
// Frequency and ester are optional.
func parseStack(raw string) (pkpd.Stack, error) {
	var out pkpd.Stack
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.Split(item, ":")
		if len(parts) < 2 || len(parts) > 4 {
			return nil, fmt.Errorf("bad stack entry %q: want compound:dose[:freq[:ester]]", item)
		}
		dose, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || dose < 0 {
			return nil, fmt.Errorf("bad dose in %q", item)
		}
		e := pkpd.StackEntry{Compound: parts[0], Dose: dose}
		if len(parts) > 2 {
			e.Frequency = pkpd.ParseFrequency(parts[2])
		}
		if len(parts) > 3 {
			e.Ester = parts[3]
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty stack")
	}
	return out, nil
}

// parseRange reads "compound=lo:hi:steps" for the optimizer.
func parseRange(raw string) (string, []float64, error) {
	name, rest, ok := strings.Cut(raw, "=")
	if !ok {
		return "", nil, fmt.Errorf("bad range %q: want compound=lo:hi:steps", raw)
	}
	parts := strings.Split(rest, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("bad range %q: want compound=lo:hi:steps", raw)
	}
	lo, err1 := strconv.ParseFloat(parts[0], 64)
	hi, err2 := strconv.ParseFloat(parts[1], 64)
	steps, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return "", nil, fmt.Errorf("bad range %q", raw)
	}
	return name, []float64{lo, hi, float64(steps)}, nil
}
