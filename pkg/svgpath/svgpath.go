// Package svgpath models SVG path data as sub paths of draw-to commands.
//
// Only the subset of the path grammar that stroke output needs is
// supported: move to, line to (including the horizontal and vertical
// forms), cubic curve to and close path, in both absolute and relative
// form.
package svgpath

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"sigtrace/pkg/cfg"
)

// svg-path:
//     wsp* moveto-drawto-command-groups? wsp*
// moveto-drawto-command-group:
//     moveto wsp* drawto-commands?
// drawto-command:
//     closepath | lineto | horizontal-lineto | vertical-lineto | curveto
// moveto:
//     ( "M" | "m" ) wsp* coordinate-pair (comma-wsp? coordinate-pair)*
// closepath:
//     ("Z" | "z")
// lineto:
//     ( "L" | "l" ) wsp* coordinate-pair (comma-wsp? coordinate-pair)*
// horizontal-lineto:
//     ( "H" | "h" ) wsp* coordinate (comma-wsp? coordinate)*
// vertical-lineto:
//     ( "V" | "v" ) wsp* coordinate (comma-wsp? coordinate)*
// curveto:
//     ( "C" | "c" ) wsp* curveto-argument (comma-wsp? curveto-argument)*
// curveto-argument:
//     coordinate-pair comma-wsp? coordinate-pair comma-wsp? coordinate-pair
// coordinate-pair:
//     coordinate comma-wsp? coordinate
// number:
//     sign? (digit-sequence | fractional-constant) exponent?
// fractional-constant:
//     digit-sequence? "." digit-sequence | digit-sequence "."
// exponent:
//     ( "e" | "E" ) sign? digit-sequence
// comma-wsp:
//     (wsp+ comma? wsp*) | (comma wsp*)
// wsp:
//     (#x20 | #x9 | #xD | #xA)

// SubPath is one "M" group: a start point followed by draw-to commands.
type SubPath struct {
	X, Y   float64
	DrawTo []*DrawTo
}

type Command string

const (
	ClosePath Command = "Z"
	LineTo    Command = "L"
	CurveTo   Command = "C"
)

// DrawTo is one command with absolute coordinates. X1, Y1, X2, Y2 are the
// control points of a CurveTo and unused otherwise.
type DrawTo struct {
	Command Command
	X, Y    float64
	X1, Y1  float64
	X2, Y2  float64
}

// SyntaxError reports where path data stopped making sense.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("path data offset %d: %s", e.Offset, e.Msg)
}

type state struct {
	data     string
	index    int
	subPaths []*SubPath
	group    *SubPath
	currentX float64
	currentY float64
}

// Parse parses a path string. Sub paths parsed before an error are
// returned along with it.
func Parse(path string) ([]*SubPath, error) {
	s := &state{data: path}
	err := s.parse()
	return s.subPaths, err
}

func (s *state) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: s.index, Msg: fmt.Sprintf(format, args...)}
}

func (s *state) parse() error {
	for {
		s.whitespace()
		c := s.peek()
		if c == 0 {
			return nil
		}
		if c != 'M' && c != 'm' {
			return s.errorf("expected \"M\" or \"m\", got %q", string(c))
		}
		if err := s.parseMoveTo(); err != nil {
			return err
		}
		if err := s.parseDrawToCommands(); err != nil {
			return err
		}
	}
}

func (s *state) parseMoveTo() error {
	relative := s.next() == 'm'
	s.whitespace()

	x, y, err := s.parseCoordinatePair()
	if err != nil {
		return err
	}
	if relative {
		x += s.currentX
		y += s.currentY
	}
	s.currentX, s.currentY = x, y
	s.group = &SubPath{X: x, Y: y}
	s.subPaths = append(s.subPaths, s.group)

	// Extra pairs after a move to are implicit line tos.
	return s.repeat(2, func(args []float64) {
		s.lineTo(args[0], args[1], relative)
	})
}

func (s *state) parseDrawToCommands() error {
	for {
		s.whitespace()
		c := s.peek()
		var err error
		switch c {
		case 'Z', 'z':
			s.next()
			s.closePath()
			continue
		case 'L', 'l':
			s.next()
			s.ensureSubPath()
			err = s.arguments(2, func(args []float64) {
				s.lineTo(args[0], args[1], c == 'l')
			})
		case 'H', 'h':
			s.next()
			s.ensureSubPath()
			err = s.arguments(1, func(args []float64) {
				x := args[0]
				if c == 'h' {
					x += s.currentX
				}
				s.lineTo(x, s.currentY, false)
			})
		case 'V', 'v':
			s.next()
			s.ensureSubPath()
			err = s.arguments(1, func(args []float64) {
				y := args[0]
				if c == 'v' {
					y += s.currentY
				}
				s.lineTo(s.currentX, y, false)
			})
		case 'C', 'c':
			s.next()
			s.ensureSubPath()
			err = s.arguments(6, func(args []float64) {
				s.curveTo(args, c == 'c')
			})
		default:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// arguments parses one or more groups of n numbers, calling apply for each.
func (s *state) arguments(n int, apply func(args []float64)) error {
	s.whitespace()
	args, err := s.parseNumbers(n)
	if err != nil {
		return err
	}
	apply(args)
	return s.repeat(n, apply)
}

// repeat parses further groups of n numbers until one fails, backtracking
// over the failed attempt.
func (s *state) repeat(n int, apply func(args []float64)) error {
	for {
		saved := s.index
		s.commaWhitespace()
		c := s.peek()
		if !(c == '+' || c == '-' || c == '.' || ('0' <= c && c <= '9')) {
			s.index = saved
			return nil
		}
		args, err := s.parseNumbers(n)
		if err != nil {
			return err
		}
		apply(args)
	}
}

func (s *state) parseNumbers(n int) ([]float64, error) {
	args := make([]float64, n)
	for i := range args {
		if i > 0 {
			s.commaWhitespace()
		}
		v, err := s.parseNumber()
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (s *state) parseCoordinatePair() (float64, float64, error) {
	args, err := s.parseNumbers(2)
	if err != nil {
		return 0, 0, err
	}
	return args[0], args[1], nil
}

func (s *state) ensureSubPath() {
	if s.group == nil {
		s.group = &SubPath{X: s.currentX, Y: s.currentY}
		s.subPaths = append(s.subPaths, s.group)
	}
}

func (s *state) lineTo(x, y float64, relative bool) {
	if relative {
		x += s.currentX
		y += s.currentY
	}
	s.group.DrawTo = append(s.group.DrawTo, &DrawTo{Command: LineTo, X: x, Y: y})
	s.currentX, s.currentY = x, y
}

func (s *state) curveTo(args []float64, relative bool) {
	if relative {
		for i := 0; i < 6; i += 2 {
			args[i] += s.currentX
			args[i+1] += s.currentY
		}
	}
	s.group.DrawTo = append(s.group.DrawTo, &DrawTo{
		Command: CurveTo,
		X1:      args[0],
		Y1:      args[1],
		X2:      args[2],
		Y2:      args[3],
		X:       args[4],
		Y:       args[5],
	})
	s.currentX, s.currentY = args[4], args[5]
}

func (s *state) closePath() {
	if s.group == nil {
		return
	}
	s.group.DrawTo = append(s.group.DrawTo, &DrawTo{Command: ClosePath, X: s.group.X, Y: s.group.Y})
	s.currentX, s.currentY = s.group.X, s.group.Y
	s.group = nil
}

func (s *state) parseNumber() (float64, error) {
	start := s.index
	if c := s.peek(); c == '+' || c == '-' {
		s.next()
	}
	intPart := s.digitSequence()
	fracPart := ""
	if s.peek() == '.' {
		s.next()
		fracPart = s.digitSequence()
		if intPart == "" && fracPart == "" {
			return 0, s.errorf("expected a number, got only a \".\"")
		}
	} else if intPart == "" {
		s.index = start
		return 0, s.errorf("expected a number, got %q", string(s.peek()))
	}

	if c := s.peek(); c == 'e' || c == 'E' {
		s.next()
		if c := s.peek(); c == '+' || c == '-' {
			s.next()
		}
		if s.digitSequence() == "" {
			return 0, s.errorf("expected an exponent")
		}
	}

	n, err := strconv.ParseFloat(s.data[start:s.index], 64)
	if err != nil {
		return 0, s.errorf("%v", err)
	}
	return n, nil
}

func (s *state) digitSequence() string {
	start := s.index
	for c := s.peek(); '0' <= c && c <= '9'; c = s.peek() {
		s.next()
	}
	return s.data[start:s.index]
}

// whitespace consumes "wsp*", and returns the number of bytes consumed
func (s *state) whitespace() int {
	count := 0
	for {
		switch s.peek() {
		case ' ', '\t', '\n', '\r':
			s.next()
			count++
		default:
			return count
		}
	}
}

// commaWhitespace consumes an optional "(wsp+ comma? wsp*) | (comma wsp*)"
func (s *state) commaWhitespace() {
	s.whitespace()
	if s.peek() == ',' {
		s.next()
	}
	s.whitespace()
}

// peek returns the next byte without consuming it, or 0 if at the end of stream
func (s *state) peek() byte {
	if s.index < len(s.data) {
		return s.data[s.index]
	}
	return 0
}

func (s *state) next() byte {
	c := s.peek()
	if c != 0 {
		s.index++
	}
	return c
}

// FormatNumber formats n rounded to cfg.CoordinatePrecision decimal places,
// without trailing zeros.
func FormatNumber(n float64) string {
	scale := math.Pow10(cfg.CoordinatePrecision)
	n = math.Round(n*scale) / scale
	if n == 0 {
		// avoid "-0"
		n = 0
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// ToString serializes sub paths as absolute commands separated by spaces.
// Sub paths without draw-to commands are skipped.
func ToString(groups []*SubPath) string {
	var buf strings.Builder
	for _, group := range groups {
		if group.Empty() {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString("M " + FormatNumber(group.X) + " " + FormatNumber(group.Y))
		for _, drawTo := range group.DrawTo {
			switch drawTo.Command {
			case LineTo:
				buf.WriteString(" L " + FormatNumber(drawTo.X) + " " + FormatNumber(drawTo.Y))
			case CurveTo:
				buf.WriteString(" C " +
					FormatNumber(drawTo.X1) + " " + FormatNumber(drawTo.Y1) + " " +
					FormatNumber(drawTo.X2) + " " + FormatNumber(drawTo.Y2) + " " +
					FormatNumber(drawTo.X) + " " + FormatNumber(drawTo.Y))
			case ClosePath:
				buf.WriteString(" Z")
			}
		}
	}
	return buf.String()
}
