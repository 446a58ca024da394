package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robotalks/toyctl/pkg/servo"
)

// TextDecoder decodes lines like "toy1_t1:150".
type TextDecoder struct {
	// Toys is the number of toys, tags are toy1 ... toyN.
	Toys int
	// Strict rejects angles which are not plain integers instead of
	// parsing the leading digits.
	Strict bool
}

// DefaultTextDecoder decodes the default two-toy layout.
var DefaultTextDecoder = TextDecoder{Toys: 2}

// DecodeText decodes a line with DefaultTextDecoder.
func DecodeText(line string) (Command, error) {
	return DefaultTextDecoder.Decode(line)
}

// Decode decodes a single line.
func (d TextDecoder) Decode(line string) (Command, error) {
	line = strings.TrimSpace(line)
	sep := strings.IndexByte(line, ':')
	if sep < 0 {
		return Command{}, fmt.Errorf("%w: missing ':' in %q", ErrMalformed, line)
	}
	if sep == 0 {
		return Command{}, fmt.Errorf("%w: missing target in %q", ErrMalformed, line)
	}
	prefix, value := line[:sep], line[sep+1:]

	var cmd Command
	var ok bool
	if cmd.ToyID, ok = d.matchToy(prefix); !ok {
		return Command{}, fmt.Errorf("%w: unknown toy in %q", ErrMalformed, prefix)
	}
	if cmd.Role, ok = matchRole(prefix); !ok {
		return Command{}, fmt.Errorf("%w: unknown servo in %q", ErrMalformed, prefix)
	}
	if d.Strict {
		angle, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return Command{}, fmt.Errorf("%w: bad angle %q", ErrMalformed, value)
		}
		cmd.Angle = angle
	} else {
		cmd.Angle = leadingInt(value)
	}
	return cmd, nil
}

func (d TextDecoder) matchToy(prefix string) (uint8, bool) {
	toys := d.Toys
	if toys <= 0 {
		toys = DefaultTextDecoder.Toys
	}
	for n := 0; n < toys && n <= 0xff; n++ {
		if strings.HasPrefix(prefix, fmt.Sprintf("toy%d_", n+1)) {
			return uint8(n), true
		}
	}
	return 0, false
}

func matchRole(prefix string) (servo.Role, bool) {
	for _, role := range servo.Roles() {
		if strings.HasSuffix(prefix, "_"+role.Suffix()) {
			return role, true
		}
	}
	return 0, false
}

// leadingInt parses an optional sign and the leading decimal digits
// after optional whitespace. Anything else yields 0.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for _, ch := range []byte(s) {
		if ch < '0' || ch > '9' {
			break
		}
		n = n*10 + int(ch-'0')
		if n > 1<<30 {
			break
		}
	}
	if neg {
		return -n
	}
	return n
}
