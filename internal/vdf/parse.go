package vdf

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedDocument reports unbalanced braces, unterminated strings, or a
// key with no value.
var ErrMalformedDocument = errors.New("malformed document")

type tokenKind int

const (
	tokString tokenKind = iota
	tokOpen
	tokClose
	tokCondition
	tokEOF
)

type token struct {
	kind   tokenKind
	text   string
	offset int
}

// Parse converts raw document text into a tree. The returned root is always a
// map: top-level key/value pairs become its children, and a leading
// unkeyed "{ ... }" block is merged into it.
func Parse(raw string) (*Node, error) {
	p := &parser{lex: lexer{src: Clean(raw)}}
	root := NewMap()
	if err := p.parseMap(root, 0); err != nil {
		return nil, err
	}
	return root, nil
}

type parser struct {
	lex lexer
}

func (p *parser) parseMap(m *Node, depth int) error {
	for {
		tok, err := p.lex.next()
		if err != nil {
			return err
		}
		switch tok.kind {
		case tokEOF:
			if depth > 0 {
				return malformed(tok.offset, fmt.Sprintf("document ended with %d unclosed brace(s)", depth))
			}
			return nil
		case tokClose:
			if depth == 0 {
				return malformed(tok.offset, "closing brace without matching opening brace")
			}
			return nil
		case tokOpen:
			if depth > 0 {
				return malformed(tok.offset, "opening brace without a key")
			}
			if err := p.parseMap(m, depth+1); err != nil {
				return err
			}
		case tokCondition:
			// Platform conditionals such as [$WIN32] carry no data here.
		case tokString:
			if err := p.parseValue(m, tok, depth); err != nil {
				return err
			}
		}
	}
}

func (p *parser) parseValue(m *Node, key token, depth int) error {
	for {
		tok, err := p.lex.next()
		if err != nil {
			return err
		}
		switch tok.kind {
		case tokCondition:
			continue
		case tokString:
			m.Set(key.text, Scalar(tok.text))
			return nil
		case tokOpen:
			child := NewMap()
			if err := p.parseMap(child, depth+1); err != nil {
				return err
			}
			m.Set(key.text, child)
			return nil
		default:
			return malformed(key.offset, fmt.Sprintf("key %q has no value", key.text))
		}
	}
}

func malformed(offset int, msg string) error {
	return fmt.Errorf("%w: %s at offset %d", ErrMalformedDocument, msg, offset)
}

type lexer struct {
	src string
	pos int
}

func (l *lexer) next() (token, error) {
	l.skipInsignificant()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, offset: l.pos}, nil
	}
	start := l.pos
	switch l.src[l.pos] {
	case '{':
		l.pos++
		return token{kind: tokOpen, offset: start}, nil
	case '}':
		l.pos++
		return token{kind: tokClose, offset: start}, nil
	case '"':
		return l.quoted()
	default:
		return l.bare(), nil
	}
}

func (l *lexer) skipInsignificant() {
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f':
			l.pos++
		case strings.HasPrefix(l.src[l.pos:], "\uFEFF"):
			l.pos += len("\uFEFF")
		case strings.HasPrefix(l.src[l.pos:], "//"):
			end := strings.IndexByte(l.src[l.pos:], '\n')
			if end < 0 {
				l.pos = len(l.src)
				return
			}
			l.pos += end + 1
		default:
			return
		}
	}
}

func (l *lexer) quoted() (token, error) {
	start := l.pos
	l.pos++ // opening quote
	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case '"':
			l.pos++
			return token{kind: tokString, text: b.String(), offset: start}, nil
		case '\\':
			if l.pos+1 >= len(l.src) {
				b.WriteByte(c)
				l.pos++
				continue
			}
			switch esc := l.src[l.pos+1]; esc {
			case '\\', '"':
				b.WriteByte(esc)
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(c)
				b.WriteByte(esc)
			}
			l.pos += 2
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return token{}, malformed(start, "unterminated quoted string")
}

func (l *lexer) bare() token {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '{' || c == '}' || c == '"' || c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f' {
			break
		}
		l.pos++
	}
	text := l.src[start:l.pos]
	if len(text) >= 2 && text[0] == '[' && text[len(text)-1] == ']' {
		return token{kind: tokCondition, text: text, offset: start}
	}
	return token{kind: tokString, text: text, offset: start}
}
