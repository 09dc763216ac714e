package fence

import (
	"iter"
	"strings"

	"docfence/internal/source"
)

// Scanner yields the blocks of a document one at a time.
type Scanner struct {
	text string
	file source.FileID
	off  int // начало следующей непросмотренной строки
	line int // 1-based номер строки для off

	unclosed     source.Span
	unclosedLine int
}

// NewScanner returns a scanner positioned at the start of text.
func NewScanner(text string) *Scanner {
	return NewFileScanner(0, text)
}

// NewFileScanner is NewScanner with spans attributed to file.
func NewFileScanner(file source.FileID, text string) *Scanner {
	return &Scanner{text: text, file: file, line: 1}
}

// Reset restarts the scan over text.
func (s *Scanner) Reset(text string) {
	s.text = text
	s.off = 0
	s.line = 1
	s.unclosed = source.Span{}
	s.unclosedLine = 0
}

// Next returns the next block, or false when the document is exhausted.
// An opening fence without a matching closer ends the scan.
func (s *Scanner) Next() (Block, bool) {
	for s.off < len(s.text) {
		start, line := s.off, s.line
		content, next := s.readLine()
		open, ok := parseFenceLine(content)
		if !ok {
			continue
		}
		openSpan := source.SpanOf(s.file, start, start+len(content))
		if next < 0 {
			// открывающая строка без перевода строки - тела нет
			s.off = len(s.text)
			s.unclosed, s.unclosedLine = openSpan, line
			return Block{}, false
		}

		bodyStart := next
		for s.off < len(s.text) {
			closeStart := s.off
			closeContent, _ := s.readLine()
			closer, ok := parseFenceLine(closeContent)
			if !ok || closer.char != open.char || closer.count < open.count {
				continue
			}
			return Block{
				Marker:    content[open.indent : open.indent+open.count],
				Tag:       open.tag,
				Info:      open.info,
				Body:      s.text[bodyStart:closeStart],
				Line:      line,
				Open:      openSpan,
				TagSpan:   source.SpanOf(s.file, start+open.tagStart, start+open.tagStart+len(open.tag)),
				BodySpan:  source.SpanOf(s.file, bodyStart, closeStart),
				Close:     source.SpanOf(s.file, closeStart, closeStart+len(closeContent)),
				CloseInfo: closer.info,
			}, true
		}
		s.unclosed, s.unclosedLine = openSpan, line
		return Block{}, false
	}
	return Block{}, false
}

// Unclosed reports the opening fence that ended the scan because no closer
// followed it. It is valid once Next has returned false.
func (s *Scanner) Unclosed() (span source.Span, line int, ok bool) {
	return s.unclosed, s.unclosedLine, s.unclosedLine > 0
}

// readLine consumes one line and returns it without the newline (and without
// a trailing \r), plus the offset of the following line or -1 at end of text.
func (s *Scanner) readLine() (string, int) {
	rest := s.text[s.off:]
	nl := strings.IndexByte(rest, '\n')
	var content string
	next := -1
	if nl < 0 {
		content = rest
		s.off = len(s.text)
	} else {
		content = rest[:nl]
		next = s.off + nl + 1
		s.off = next
		s.line++
	}
	return strings.TrimSuffix(content, "\r"), next
}

// All returns a lazy sequence over the blocks of text. Every call to the
// returned sequence starts a fresh scan.
func All(text string) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		sc := NewScanner(text)
		for {
			b, ok := sc.Next()
			if !ok || !yield(b) {
				return
			}
		}
	}
}

// Collect returns every block of text.
func Collect(text string) []Block {
	var out []Block
	for b := range All(text) {
		out = append(out, b)
	}
	return out
}

type fenceLine struct {
	indent   int
	char     byte
	count    int
	info     string
	tag      string
	tagStart int // offset of the tag (or the insertion point) within the line
}

func parseFenceLine(line string) (fenceLine, bool) {
	indent := 0
	for indent < len(line) && (line[indent] == ' ' || line[indent] == '\t') {
		indent++
	}
	if indent == len(line) {
		return fenceLine{}, false
	}
	ch := line[indent]
	if ch != '`' && ch != '~' {
		return fenceLine{}, false
	}
	count := 0
	for indent+count < len(line) && line[indent+count] == ch {
		count++
	}
	if count < 3 {
		return fenceLine{}, false
	}

	rest := line[indent+count:]
	if ch == '`' && strings.IndexByte(rest, '`') >= 0 {
		// ```code``` в одной строке - это inline, а не ограда
		return fenceLine{}, false
	}

	fl := fenceLine{
		indent:   indent,
		char:     ch,
		count:    count,
		info:     strings.TrimSpace(rest),
		tagStart: indent + count,
	}
	trimmed := strings.TrimLeft(rest, " \t")
	if trimmed != "" {
		fl.tagStart += len(rest) - len(trimmed)
		if end := strings.IndexAny(trimmed, " \t"); end >= 0 {
			fl.tag = trimmed[:end]
		} else {
			fl.tag = trimmed
		}
	}
	return fl, true
}
