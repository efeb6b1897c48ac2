package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/papapumpkin/montage/internal/model"
)

// parseRate reads "25", "25/1" or "30000/1001".
func parseRate(s string) (model.Rate, error) {
	num, den, found := strings.Cut(s, "/")
	if !found {
		den = "1"
	}
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return model.Rate{}, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	d, err := strconv.ParseInt(den, 10, 64)
	if err != nil {
		return model.Rate{}, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	r := model.Rate{Num: n, Den: d}
	if !r.Valid() {
		return model.Rate{}, fmt.Errorf("invalid rate %q", s)
	}
	return r, nil
}

// parseSource reads "name" or "name:stream".
func parseSource(s string) model.SourceRef {
	name, stream, _ := strings.Cut(s, ":")
	return model.SourceRef{Name: name, Stream: stream}
}

func parseType(s string) (model.StreamType, error) {
	t := model.StreamType(strings.ToLower(s))
	if !t.Valid() {
		return "", fmt.Errorf("unknown stream type %q (want video or audio)", s)
	}
	return t, nil
}

// parseItemSpec reads a sequence item given as LENGTH[:TRANSITION].
func parseItemSpec(s string) (length, transition int, err error) {
	l, t, found := strings.Cut(s, ":")
	if length, err = strconv.Atoi(l); err != nil {
		return 0, 0, fmt.Errorf("invalid item %q: %w", s, err)
	}
	if found {
		if transition, err = strconv.Atoi(t); err != nil {
			return 0, 0, fmt.Errorf("invalid item %q: %w", s, err)
		}
	}
	return length, transition, nil
}
