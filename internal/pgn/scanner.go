package pgn

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// reTagPair matches one PGN tag pair line: [Name "Value"]. Escaped quotes
// and backslashes inside Value are unescaped by Scanner.
var reTagPair = regexp.MustCompile(`^\[([A-Za-z0-9_]+)\s+"((?:[^"\\]|\\.)*)"\]\s*$`)

// Game is one game's tag pairs plus the byte offset in the source text
// where the game ended, for progress reporting.
type Game struct {
	Tags   map[string]string
	Offset int64
}

// Scanner reads consecutive games' tag-pair sections from a PGN source,
// skipping over movetext without attempting to parse it. A game boundary
// is any line beginning with '[' that follows movetext (or the start of
// input); this tolerates PGN files with or without the blank line the
// specification recommends between header and movetext.
type Scanner struct {
	r       *bufio.Reader
	offset  int64
	pending *Game
	tags    map[string]string
	sawTags bool
	sawMove bool
	done    bool
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next game's tag pairs, or io.EOF once the source is
// exhausted.
func (s *Scanner) Next() (Game, error) {
	if s.done {
		return Game{}, io.EOF
	}
	s.tags = make(map[string]string)
	s.sawTags = false
	s.sawMove = false

	for {
		line, err := s.readLine()
		if err != nil {
			s.done = true
			if len(s.tags) > 0 || s.sawMove {
				return Game{Tags: s.tags, Offset: s.offset}, nil
			}
			return Game{}, io.EOF
		}
		trimmed := strings.TrimSpace(line)

		if m := reTagPair.FindStringSubmatch(trimmed); m != nil {
			if s.sawMove {
				// Next game's header line: push it back logically by
				// rewinding via a one-line buffer.
				s.pushback(line)
				return Game{Tags: s.tags, Offset: s.offset}, nil
			}
			s.tags[m[1]] = unescapeTagValue(m[2])
			s.sawTags = true
			continue
		}

		if trimmed == "" {
			continue
		}

		// Anything else is movetext; consume and ignore it.
		s.sawMove = true
	}
}

func (s *Scanner) readLine() (string, error) {
	line, err := s.r.ReadString('\n')
	s.offset += int64(len(line))
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}

// pushback re-delivers line as the first line read by the next Next call,
// by wrapping the remaining reader. Used only at a game boundary, which
// happens at most once per Next call, so a simple concat is cheap enough.
func (s *Scanner) pushback(line string) {
	s.r = bufio.NewReaderSize(io.MultiReader(strings.NewReader(line), s.r), 64*1024)
	s.offset -= int64(len(line))
}

func unescapeTagValue(v string) string {
	if !strings.ContainsRune(v, '\\') {
		return v
	}
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		if v[i] == '\\' && i+1 < len(v) {
			i++
		}
		b.WriteByte(v[i])
	}
	return b.String()
}
