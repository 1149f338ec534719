package openinghours

import (
	"strconv"

	"github.com/pkg/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokWord
	tokQuoted
	tokColon
	tokComma
	tokSemi
	tokBarBar
	tokDash
	tokSlash
	tokPlus
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string // raw text; quoted tokens carry the content without quotes
	num  int    // numeric value for tokNumber
	pos  int    // byte offset in the input
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// lex splits an opening_hours expression into tokens. Whitespace separates
// tokens and is otherwise ignored; the grammar is ASCII.
func lex(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c):
			start := i
			for i < len(input) && isDigit(input[i]) {
				i++
			}
			text := input[start:i]
			n, err := strconv.Atoi(text)
			if err != nil {
				return nil, errors.Wrapf(err, "bad number %q at offset %d", text, start)
			}
			toks = append(toks, token{kind: tokNumber, text: text, num: n, pos: start})
		case isLetter(c):
			start := i
			for i < len(input) && isLetter(input[i]) {
				i++
			}
			toks = append(toks, token{kind: tokWord, text: input[start:i], pos: start})
		case c == '"':
			start := i
			i++
			for i < len(input) && input[i] != '"' {
				i++
			}
			if i >= len(input) {
				return nil, errors.Errorf("unterminated quote at offset %d", start)
			}
			toks = append(toks, token{kind: tokQuoted, text: input[start+1 : i], pos: start})
			i++
		case c == '|':
			if i+1 >= len(input) || input[i+1] != '|' {
				return nil, errors.Errorf("single '|' at offset %d", i)
			}
			toks = append(toks, token{kind: tokBarBar, text: "||", pos: i})
			i += 2
		default:
			kind := tokEOF
			switch c {
			case ':':
				kind = tokColon
			case ',':
				kind = tokComma
			case ';':
				kind = tokSemi
			case '-':
				kind = tokDash
			case '/':
				kind = tokSlash
			case '+':
				kind = tokPlus
			case '[':
				kind = tokLBracket
			case ']':
				kind = tokRBracket
			case '(':
				kind = tokLParen
			case ')':
				kind = tokRParen
			default:
				return nil, errors.Errorf("unexpected character %q at offset %d", string(c), i)
			}
			toks = append(toks, token{kind: kind, text: string(c), pos: i})
			i++
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(input)})
	return toks, nil
}
