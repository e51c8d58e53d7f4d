package arff

import (
	"errors"
	"strings"
)

var errUnterminatedQuote = errors.New("unterminated quote")

// token is one field of a header or data line.
type token struct {
	text   string
	quoted bool
}

// nextToken reads one whitespace-delimited or quoted token from s and
// returns the remainder with leading whitespace removed.
func nextToken(s string) (token, string, error) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return token{}, "", nil
	}
	if s[0] == '\'' || s[0] == '"' {
		text, n, err := unquote(s)
		if err != nil {
			return token{}, "", err
		}
		return token{text: text, quoted: true}, strings.TrimLeft(s[n:], " \t"), nil
	}
	end := strings.IndexAny(s, " \t")
	if end < 0 {
		return token{text: s}, "", nil
	}
	return token{text: s[:end]}, strings.TrimLeft(s[end:], " \t"), nil
}

// splitFields splits s at sep, honoring quotes. Unquoted fields are
// trimmed of surrounding whitespace.
func splitFields(s string, sep byte) ([]token, error) {
	var out []token
	for {
		s = strings.TrimLeft(s, " \t")
		var tok token
		if s != "" && (s[0] == '\'' || s[0] == '"') {
			text, n, err := unquote(s)
			if err != nil {
				return nil, err
			}
			tok = token{text: text, quoted: true}
			s = strings.TrimLeft(s[n:], " \t")
			if s != "" && s[0] != sep {
				return nil, errors.New("unexpected text after quoted value")
			}
		} else {
			end := strings.IndexByte(s, sep)
			if end < 0 {
				end = len(s)
			}
			tok = token{text: strings.TrimRight(s[:end], " \t")}
			s = s[end:]
		}
		out = append(out, tok)
		if s == "" {
			return out, nil
		}
		s = s[1:] // separator
	}
}

// unquote decodes the quoted string at the start of s and returns it with
// the number of bytes consumed.
func unquote(s string) (string, int, error) {
	q := s[0]
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == q:
			return b.String(), i + 1, nil
		case c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(s[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, errUnterminatedQuote
}
