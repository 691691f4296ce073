package toml

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parser parses TOML tokens into a map[string]any
// Values are string, int64, float64, bool, []any, map[string]any and []map[string]any for arrays of tables
type Parser struct {
	lexer     *Lexer
	curToken  Token
	peekToken Token
	root      map[string]any
	current   map[string]any // Table receiving key/value pairs

	defined map[string]bool // Explicit [table] headers, by joined path
}

func NewParser(input []byte) *Parser {
	p := &Parser{
		lexer:   NewLexer(input),
		root:    make(map[string]any),
		defined: make(map[string]bool),
	}
	p.nextToken()
	p.nextToken()
	p.current = p.root
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()

	// Comments are dropped
	for p.peekToken.Type == TokenComment {
		p.peekToken = p.lexer.NextToken()
	}
}

func (p *Parser) errorf(tok Token, format string, args ...any) error {
	return &ParseError{Line: tok.Line, Col: tok.Col, Msg: fmt.Sprintf(format, args...)}
}

// Parse consumes the whole document
func (p *Parser) Parse() (map[string]any, error) {
	for p.curToken.Type != TokenEOF {
		if p.curToken.Type == TokenNewline {
			p.nextToken()
			continue
		}
		if err := p.parseStatement(); err != nil {
			return nil, err
		}
		// A statement must end the line
		if p.curToken.Type != TokenNewline && p.curToken.Type != TokenEOF {
			return nil, p.errorf(p.curToken, "expected end of line, got %s", p.curToken)
		}
	}
	return p.root, nil
}

func (p *Parser) parseStatement() error {
	switch p.curToken.Type {
	case TokenLBracket:
		return p.parseTableDeclaration()
	case TokenIdent, TokenString, TokenInteger:
		return p.parseKeyValuePair(p.current)
	case TokenError:
		return p.errorf(p.curToken, "%s", p.curToken.Literal)
	default:
		return p.errorf(p.curToken, "unexpected token %s", p.curToken)
	}
}

// parseTableDeclaration handles [key] and [[key]]
func (p *Parser) parseTableDeclaration() error {
	open := p.curToken
	isArray := false
	if p.peekToken.Type == TokenLBracket {
		p.nextToken()
		isArray = true
	}
	p.nextToken()

	keys, err := p.parseKeyParts()
	if err != nil {
		return err
	}

	if isArray {
		if p.curToken.Type != TokenRBracket || p.peekToken.Type != TokenRBracket {
			return p.errorf(p.curToken, "expected ]] closing array table")
		}
		p.nextToken()
	}
	if p.curToken.Type != TokenRBracket {
		return p.errorf(p.curToken, "expected ] closing table")
	}
	p.nextToken()

	path := strings.Join(keys, "\x00")
	if isArray {
		// Sub-tables of the previous element may be declared again
		for k := range p.defined {
			if strings.HasPrefix(k, path+"\x00") {
				delete(p.defined, k)
			}
		}
	} else {
		if p.defined[path] {
			return p.errorf(open, "table [%s] defined twice", strings.Join(keys, "."))
		}
		p.defined[path] = true
	}
	return p.setTableScope(open, keys, isArray)
}

// setTableScope walks from the root creating tables and points current at the last one
// Intermediate arrays of tables resolve to their last element
func (p *Parser) setTableScope(at Token, keys []string, isArrayOfTables bool) error {
	table := p.root

	for i, key := range keys {
		last := i == len(keys)-1
		existing, exists := table[key]

		if last && isArrayOfTables {
			var slice []map[string]any
			if exists {
				s, ok := existing.([]map[string]any)
				if !ok {
					return p.errorf(at, "key %s is not an array of tables", key)
				}
				slice = s
			}
			next := make(map[string]any)
			table[key] = append(slice, next)
			p.current = next
			return nil
		}

		switch v := existing.(type) {
		case nil:
			next := make(map[string]any)
			table[key] = next
			table = next
		case map[string]any:
			table = v
		case []map[string]any:
			if last {
				return p.errorf(at, "key %s is an array of tables", key)
			}
			if len(v) == 0 {
				return p.errorf(at, "cannot traverse empty array table %s", key)
			}
			table = v[len(v)-1]
		default:
			return p.errorf(at, "key %s is not a table", key)
		}
	}
	p.current = table
	return nil
}

func (p *Parser) parseKeyValuePair(scope map[string]any) error {
	at := p.curToken
	keys, err := p.parseKeyParts()
	if err != nil {
		return err
	}

	if p.curToken.Type != TokenEqual {
		return p.errorf(p.curToken, "expected '=' after key, got %s", p.curToken)
	}
	p.nextToken()

	val, err := p.parseValue()
	if err != nil {
		return err
	}
	return p.assignValue(at, scope, keys, val)
}

func (p *Parser) assignValue(at Token, table map[string]any, keys []string, val any) error {
	for i, key := range keys {
		if i == len(keys)-1 {
			if _, exists := table[key]; exists {
				return p.errorf(at, "duplicate key %s", strings.Join(keys, "."))
			}
			table[key] = val
			return nil
		}
		switch v := table[key].(type) {
		case nil:
			next := make(map[string]any)
			table[key] = next
			table = next
		case map[string]any:
			table = v
		default:
			return p.errorf(at, "intermediate key %s is not a table", key)
		}
	}
	return nil
}

// parseKeyParts reads a possibly dotted key; bare integers are allowed as key segments
func (p *Parser) parseKeyParts() ([]string, error) {
	var keys []string
	for {
		switch p.curToken.Type {
		case TokenIdent, TokenString, TokenInteger:
			keys = append(keys, p.curToken.Literal)
		default:
			return nil, p.errorf(p.curToken, "expected key, got %s", p.curToken)
		}
		p.nextToken()

		if p.curToken.Type != TokenDot {
			return keys, nil
		}
		p.nextToken()
	}
}

func (p *Parser) parseValue() (any, error) {
	tok := p.curToken
	switch tok.Type {
	case TokenString:
		p.nextToken()
		return tok.Literal, nil
	case TokenInteger:
		v, err := parseInteger(tok.Literal)
		if err != nil {
			return nil, p.errorf(tok, "invalid integer %s: %v", tok.Literal, err)
		}
		p.nextToken()
		return v, nil
	case TokenFloat:
		v, err := parseFloat(tok.Literal)
		if err != nil {
			return nil, p.errorf(tok, "invalid float %s: %v", tok.Literal, err)
		}
		p.nextToken()
		return v, nil
	case TokenBool:
		p.nextToken()
		return tok.Literal == "true", nil
	case TokenLBracket:
		return p.parseArray()
	case TokenLBrace:
		return p.parseInlineTable()
	case TokenError:
		return nil, p.errorf(tok, "%s", tok.Literal)
	}
	return nil, p.errorf(tok, "unexpected value %s", tok)
}

func parseInteger(lit string) (int64, error) {
	body := strings.TrimLeft(lit, "+-")
	if len(body) > 2 && body[0] == '0' && strings.ContainsRune("xob", rune(body[1])) {
		return strconv.ParseInt(lit, 0, 64)
	}
	if len(body) > 1 && body[0] == '0' {
		return 0, fmt.Errorf("leading zero")
	}
	return strconv.ParseInt(strings.ReplaceAll(lit, "_", ""), 10, 64)
}

func parseFloat(lit string) (float64, error) {
	switch strings.TrimLeft(lit, "+") {
	case "inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	case "nan", "-nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(lit, "_", ""), 64)
}

// skipNewlines allows arrays and inline tables to span lines
func (p *Parser) skipNewlines() {
	for p.curToken.Type == TokenNewline {
		p.nextToken()
	}
}

func (p *Parser) parseArray() ([]any, error) {
	p.nextToken() // consume [
	arr := make([]any, 0)

	for {
		p.skipNewlines()
		if p.curToken.Type == TokenRBracket {
			break
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)

		p.skipNewlines()
		if p.curToken.Type == TokenComma {
			p.nextToken()
			continue
		}
		if p.curToken.Type != TokenRBracket {
			return nil, p.errorf(p.curToken, "expected ',' or ']' in array, got %s", p.curToken)
		}
	}
	p.nextToken() // consume ]
	return arr, nil
}

func (p *Parser) parseInlineTable() (map[string]any, error) {
	p.nextToken() // consume {
	m := make(map[string]any)

	for {
		p.skipNewlines()
		if p.curToken.Type == TokenRBrace {
			break
		}
		at := p.curToken
		keys, err := p.parseKeyParts()
		if err != nil {
			return nil, err
		}
		if p.curToken.Type != TokenEqual {
			return nil, p.errorf(p.curToken, "expected '=' in inline table, got %s", p.curToken)
		}
		p.nextToken()

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if err := p.assignValue(at, m, keys, val); err != nil {
			return nil, err
		}

		p.skipNewlines()
		if p.curToken.Type == TokenComma {
			p.nextToken()
			continue
		}
		if p.curToken.Type != TokenRBrace {
			return nil, p.errorf(p.curToken, "expected ',' or '}' in inline table, got %s", p.curToken)
		}
	}
	p.nextToken() // consume }
	return m, nil
}
