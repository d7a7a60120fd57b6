package hd

import (
	"fmt"
	"strconv"
	"strings"
)

// HardenedOffset is the first hardened child index.
const HardenedOffset uint32 = 1 << 31

// Path is a parsed sequence of non-hardened child indices.
type Path []uint32

// ParsePath parses a path of the form "m/0/1/2". Every component must be a
// decimal integer below 2^31. The bare "m" is the empty path.
func ParsePath(s string) (Path, error) {
	parts := strings.Split(s, "/")
	if parts[0] != "m" {
		return nil, fmt.Errorf("%w: %q must start with \"m\"", ErrInvalidPath, s)
	}

	path := make(Path, 0, len(parts)-1)
	for _, part := range parts[1:] {
		if part == "" {
			return nil, fmt.Errorf("%w: empty component in %q", ErrInvalidPath, s)
		}
		if strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h") || strings.HasSuffix(part, "H") {
			return nil, fmt.Errorf("%w: %q", ErrHardenedIndex, part)
		}
		for _, c := range part {
			if c < '0' || c > '9' {
				return nil, fmt.Errorf("%w: bad component %q", ErrInvalidPath, part)
			}
		}
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: component %q out of range", ErrInvalidPath, part)
		}
		if uint32(v) >= HardenedOffset {
			return nil, fmt.Errorf("%w: %d", ErrHardenedIndex, v)
		}
		path = append(path, uint32(v))
	}
	return path, nil
}

// String formats p as "m/i/j/...".
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, idx := range p {
		b.WriteString("/")
		b.WriteString(strconv.FormatUint(uint64(idx), 10))
	}
	return b.String()
}
