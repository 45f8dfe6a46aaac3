package codec

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type datumType int

const (
	datumAtom datumType = iota
	datumString
	datumList
	datumQuote
)

// datum is one node of the small s-expression subset used by the scheme
// profile: atoms, strings, proper or dotted lists and quoted data.
type datum struct {
	typ   datumType
	pos   int
	text  string  // atom spelling or decoded string
	items []datum // list elements, or the single quoted datum
	tail  *datum  // dotted list tail
}

func (d datum) isAtom(text string) bool { return d.typ == datumAtom && d.text == text }

// unquote strips any number of leading quotes.
func (d datum) unquote() datum {
	for d.typ == datumQuote {
		d = d.items[0]
	}
	return d
}

type syntaxError struct {
	pos int
	msg string
}

func (e *syntaxError) Error() string { return fmt.Sprintf("offset %d: %s", e.pos, e.msg) }

// reader scans a single datum from text.
type reader struct {
	input string
	pos   int
}

// readDatum parses text as exactly one datum.
func readDatum(text string) (datum, error) {
	r := &reader{input: text}
	d, err := r.read()
	if err != nil {
		return datum{}, err
	}
	r.skipWhitespace()
	if r.pos < len(r.input) {
		return datum{}, r.errorf("unexpected %q after value", r.peek())
	}
	return d, nil
}

func (r *reader) errorf(format string, args ...any) *syntaxError {
	return &syntaxError{pos: r.pos, msg: fmt.Sprintf(format, args...)}
}

func (r *reader) peek() rune {
	if r.pos >= len(r.input) {
		return 0
	}
	c, _ := utf8.DecodeRuneInString(r.input[r.pos:])
	return c
}

func (r *reader) advance() rune {
	if r.pos >= len(r.input) {
		return 0
	}
	c, size := utf8.DecodeRuneInString(r.input[r.pos:])
	r.pos += size
	return c
}

func (r *reader) skipWhitespace() {
	for r.pos < len(r.input) && isSpace(r.peek()) {
		r.advance()
	}
}

func (r *reader) read() (datum, error) {
	r.skipWhitespace()
	if r.pos >= len(r.input) {
		return datum{}, r.errorf("unexpected end of input")
	}
	start := r.pos
	switch c := r.peek(); c {
	case '\'':
		r.advance()
		inner, err := r.read()
		if err != nil {
			return datum{}, err
		}
		return datum{typ: datumQuote, pos: start, items: []datum{inner}}, nil
	case '(':
		r.advance()
		return r.readList(start)
	case ')':
		return datum{}, r.errorf("unexpected ')'")
	case '"':
		r.advance()
		return r.readString(start)
	default:
		return r.readAtom(start), nil
	}
}

func (r *reader) readList(start int) (datum, error) {
	list := datum{typ: datumList, pos: start}
	for {
		r.skipWhitespace()
		switch {
		case r.pos >= len(r.input):
			return datum{}, r.errorf("unterminated list")
		case r.peek() == ')':
			r.advance()
			return list, nil
		}
		item, err := r.read()
		if err != nil {
			return datum{}, err
		}
		if item.isAtom(".") {
			if len(list.items) == 0 {
				return datum{}, &syntaxError{pos: item.pos, msg: "dot without a head"}
			}
			tail, err := r.read()
			if err != nil {
				return datum{}, err
			}
			r.skipWhitespace()
			if r.peek() != ')' {
				return datum{}, r.errorf("expected ')' after dotted tail")
			}
			r.advance()
			list.tail = &tail
			return list, nil
		}
		list.items = append(list.items, item)
	}
}

func (r *reader) readString(start int) (datum, error) {
	var b strings.Builder
	for {
		if r.pos >= len(r.input) {
			return datum{}, &syntaxError{pos: start, msg: "unterminated string"}
		}
		c := r.advance()
		switch c {
		case '"':
			return datum{typ: datumString, pos: start, text: b.String()}, nil
		case '\\':
			esc := r.advance()
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case '\\', '"':
				b.WriteRune(esc)
			default:
				return datum{}, r.errorf("unknown escape \\%c", esc)
			}
		default:
			b.WriteRune(c)
		}
	}
}

func (r *reader) readAtom(start int) datum {
	for r.pos < len(r.input) {
		c := r.peek()
		if isSpace(c) || c == '(' || c == ')' || c == '"' || c == '\'' {
			break
		}
		r.advance()
	}
	return datum{typ: datumAtom, pos: start, text: r.input[start:r.pos]}
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// quoteString renders s as a scheme string literal.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, c := range s {
		switch c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(c)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
