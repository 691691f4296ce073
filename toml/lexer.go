package toml

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Lexer state machine
type Lexer struct {
	input []byte
	pos   int // current position in input (points to current char)
	line  int
	col   int

	// Start of the token being scanned
	tokLine int
	tokCol  int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
	}
}

// NextToken returns the next token in the stream
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	l.tokLine, l.tokCol = l.line, l.col+1

	if l.pos >= len(l.input) {
		return l.newToken(TokenEOF, "")
	}

	ch := l.peek()

	// Newlines terminate key/value statements
	if ch == '\n' {
		l.advance()
		return l.newToken(TokenNewline, "\n")
	}

	if ch == '#' {
		return l.readComment()
	}

	switch ch {
	case '=':
		l.advance()
		return l.newToken(TokenEqual, "=")
	case '.':
		l.advance()
		return l.newToken(TokenDot, ".")
	case ',':
		l.advance()
		return l.newToken(TokenComma, ",")
	case '[':
		l.advance()
		return l.newToken(TokenLBracket, "[")
	case ']':
		l.advance()
		return l.newToken(TokenRBracket, "]")
	case '{':
		l.advance()
		return l.newToken(TokenLBrace, "{")
	case '}':
		l.advance()
		return l.newToken(TokenRBrace, "}")
	case '"':
		return l.readBasicString()
	case '\'':
		return l.readLiteralString()
	}

	if isDigit(ch) || isAlpha(ch) || ch == '_' || ch == '-' || ch == '+' {
		return l.readBareOrNumber()
	}

	l.advance()
	return l.newToken(TokenError, "unexpected character "+strconv.QuoteRune(ch))
}

func (l *Lexer) newToken(typ TokenType, literal string) Token {
	return Token{Type: typ, Literal: literal, Line: l.tokLine, Col: l.tokCol}
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, w := utf8.DecodeRune(l.input[l.pos:])
	l.pos += w
	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.advance()
		} else {
			break
		}
	}
}

func (l *Lexer) readComment() Token {
	l.advance()
	start := l.pos
	for l.pos < len(l.input) && l.peek() != '\n' {
		l.advance()
	}
	return l.newToken(TokenComment, string(l.input[start:l.pos]))
}

// readBasicString scans a double-quoted string with escapes
func (l *Lexer) readBasicString() Token {
	l.advance()
	var b strings.Builder
	for l.pos < len(l.input) {
		ch := l.advance()
		switch ch {
		case '\n':
			return l.newToken(TokenError, "newline in basic string")
		case '"':
			return l.newToken(TokenString, b.String())
		case '\\':
			esc := l.advance()
			switch esc {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'u', 'U':
				n := 4
				if esc == 'U' {
					n = 8
				}
				if l.pos+n > len(l.input) {
					return l.newToken(TokenError, "short unicode escape")
				}
				code, err := strconv.ParseUint(string(l.input[l.pos:l.pos+n]), 16, 32)
				if err != nil || !utf8.ValidRune(rune(code)) {
					return l.newToken(TokenError, "invalid unicode escape")
				}
				for i := 0; i < n; i++ {
					l.advance()
				}
				b.WriteRune(rune(code))
			default:
				return l.newToken(TokenError, "invalid escape \\"+string(esc))
			}
		default:
			b.WriteRune(ch)
		}
	}
	return l.newToken(TokenError, "unterminated string")
}

// readLiteralString scans a single-quoted string, no escapes
func (l *Lexer) readLiteralString() Token {
	l.advance()
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '\n' {
			return l.newToken(TokenError, "newline in literal string")
		}
		if ch == '\'' {
			lit := string(l.input[start:l.pos])
			l.advance()
			return l.newToken(TokenString, lit)
		}
		l.advance()
	}
	return l.newToken(TokenError, "unterminated string")
}

// readBareOrNumber scans a run of bare characters and classifies it
// Dots belong to the run only when it starts like a number, so a.b stays a dotted key
func (l *Lexer) readBareOrNumber() Token {
	start := l.pos
	first := l.peek()
	numeric := isDigit(first) || first == '+' || first == '-'

	for l.pos < len(l.input) {
		ch := l.peek()
		if isAlpha(ch) || isDigit(ch) || ch == '_' || ch == '-' || ch == '+' || (ch == '.' && numeric) {
			l.advance()
			continue
		}
		break
	}
	lit := string(l.input[start:l.pos])

	switch lit {
	case "true", "false":
		return l.newToken(TokenBool, lit)
	case "inf", "+inf", "-inf", "nan", "+nan", "-nan":
		return l.newToken(TokenFloat, lit)
	}

	if numeric {
		if typ, ok := classifyNumber(lit); ok {
			return l.newToken(typ, lit)
		}
	}
	if isBareKey(lit) {
		return l.newToken(TokenIdent, lit)
	}
	return l.newToken(TokenError, "invalid number or key "+strconv.Quote(lit))
}

// classifyNumber reports whether lit is an integer or float literal
func classifyNumber(lit string) (TokenType, bool) {
	body := strings.TrimLeft(lit, "+-")
	if len(lit)-len(body) > 1 || body == "" {
		return TokenError, false
	}
	if len(body) > 2 && body[0] == '0' && strings.ContainsRune("xob", rune(body[1])) {
		if _, err := strconv.ParseInt(lit, 0, 64); err != nil {
			return TokenError, false
		}
		return TokenInteger, true
	}
	for _, r := range body {
		if isAlpha(r) && r != 'e' && r != 'E' {
			return TokenError, false
		}
	}
	if _, err := strconv.ParseFloat(strings.ReplaceAll(lit, "_", ""), 64); err != nil {
		return TokenError, false
	}
	if strings.ContainsAny(body, ".eE") {
		return TokenFloat, true
	}
	return TokenInteger, true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
