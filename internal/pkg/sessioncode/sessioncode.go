// Package sessioncode mints short, human-enterable session codes. Codes are
// meant to be scanned from a QR render in the common case but must survive
// being read aloud and hand-typed, so the alphabet excludes characters that
// are easily confused: 0/O, 1/I/L.
package sessioncode

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
)

// Alphabet is the unambiguous character set codes are drawn from.
const Alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const (
	// SegmentCount and SegmentLength shape a code as SegmentCount segments
	// of SegmentLength characters joined by Separator, e.g. "K3WQ7N-XR2MP9".
	SegmentCount  = 2
	SegmentLength = 6
	Separator     = "-"
)

// Pattern matches a well-formed session code.
var Pattern = regexp.MustCompile(fmt.Sprintf(`^[%s]{%d}(%s[%s]{%d}){%d}$`,
	Alphabet, SegmentLength, Separator, Alphabet, SegmentLength, SegmentCount-1))

// Generator draws random session codes.
type Generator struct {
	segments  int
	segmentLn int
}

// NewGenerator creates a generator with the default code shape.
func NewGenerator() *Generator {
	return &Generator{segments: SegmentCount, segmentLn: SegmentLength}
}

// Generate returns a new random code. Each character is drawn independently
// from Alphabet using crypto/rand; the result is not guaranteed unique, the
// caller is responsible for collision detection against its store.
func (g *Generator) Generate() (string, error) {
	parts := make([]string, g.segments)
	for i := range parts {
		segment, err := randomSegment(g.segmentLn)
		if err != nil {
			return "", fmt.Errorf("failed to draw session code segment: %w", err)
		}
		parts[i] = segment
	}
	return strings.Join(parts, Separator), nil
}

func randomSegment(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return string(out), nil
}

// Valid reports whether s is a well-formed session code.
func Valid(s string) bool {
	return Pattern.MatchString(s)
}

// Normalize uppercases a hand-typed code and trims surrounding whitespace so
// that lookups are tolerant of how the code was entered.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
