// Package jvparse implements the recursive-descent JSON parser described
// in spec.md §4.2: a streaming byte cursor over the full RFC 8259
// grammar, producing a jvalue.Value whose status is jverr.Ok on success
// or one of the thirteen documented failure reasons otherwise.
//
// Parsing is fail-fast (spec.md §4.5/§7): on the first error every
// sub-parser returns the failure status to its caller and parsing
// unwinds; partially built structure is discarded and the returned Value
// is Null carrying the failure status.
package jvparse

import (
	"strconv"

	"github.com/bracez/json/jverr"
	"github.com/bracez/json/jvalue"
	"github.com/bracez/json/jvutf8"
)

// DefaultMaxDepth bounds array/object nesting so that adversarial input
// fails with InvalidValue rather than exhausting the goroutine stack
// (spec.md §9, "Recursion depth", option (b)).
const DefaultMaxDepth = 1000

// Options controls parser behavior.
type Options struct {
	// MaxDepth limits array/object nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

func (o *Options) maxDepth() int {
	if o != nil && o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return DefaultMaxDepth
}

// Parse parses text as a complete JSON document and returns the
// resulting Value. On success Status() is jverr.Ok; otherwise the
// returned Value is Null and Status() names the failure.
func Parse(text []byte) jvalue.Value {
	v, _ := ParseWithOptionsDetailed(text, nil)
	return v
}

// ParseWithOptions is like Parse but accepts configuration.
func ParseWithOptions(text []byte, opts *Options) jvalue.Value {
	v, _ := ParseWithOptionsDetailed(text, opts)
	return v
}

// ParseDetailed is like Parse but also returns a structured *jverr.Error
// carrying the byte offset at which parsing stopped and a human-readable
// message, for callers (such as cmd/jvfmt) that want teacher-style
// offset-bearing diagnostics rather than a bare status code. The
// returned error is nil on success.
func ParseDetailed(text []byte) (jvalue.Value, *jverr.Error) {
	return ParseWithOptionsDetailed(text, nil)
}

// ParseWithOptionsDetailed is ParseDetailed with configuration.
func ParseWithOptionsDetailed(text []byte, opts *Options) (jvalue.Value, *jverr.Error) {
	p := &parser{data: text, maxDepth: opts.maxDepth()}

	p.skipWhitespace()
	v, status := p.parseValue()
	if status != jverr.Ok {
		return jvalue.ErrorValue(status), p.errorAt(status)
	}

	p.skipWhitespace()
	if p.pos != len(p.data) {
		return jvalue.ErrorValue(jverr.RootNotSingular), p.errorAt(jverr.RootNotSingular)
	}
	return v, nil
}

// errorAt builds the structured diagnostic for a failure detected with
// the cursor at its current position. For most failures p.pos is the
// offset of the offending byte (or len(data) for an unexpected end of
// input); a failure found only after a token was consumed is reported
// just past that token: an invalid escape past its escape letter, a
// second \u escape that is not a low surrogate past its four hex digits,
// and an overflowing number past its last character.
func (p *parser) errorAt(status jverr.Status) *jverr.Error {
	return jverr.New(status, p.pos, statusMessages[status])
}

var statusMessages = [...]string{
	jverr.Ok:                       "no error",
	jverr.ExpectValue:              "expected a value",
	jverr.InvalidValue:             "invalid value",
	jverr.NumberTooBig:             "number magnitude overflows binary64",
	jverr.RootNotSingular:          "unexpected content after the root value",
	jverr.InvalidStringChar:        "unescaped control character in string",
	jverr.MissQuotationMark:        "missing closing quotation mark",
	jverr.InvalidStringEscape:      "invalid string escape sequence",
	jverr.InvalidUnicodeHex:        "invalid \\u hex digits",
	jverr.InvalidUnicodeSurrogate:  "invalid UTF-16 surrogate pair",
	jverr.MissCommaOrSquareBracket: "missing ',' or ']' in array",
	jverr.MissKey:                  "missing string key in object",
	jverr.MissColon:                "missing ':' after object key",
	jverr.MissCommaOrCurlyBracket:  "missing ',' or '}' in object",
}

type parser struct {
	data     []byte
	pos      int
	depth    int
	maxDepth int
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	return p.data[p.pos], true
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) pushDepth() bool {
	p.depth++
	return p.depth <= p.maxDepth
}

func (p *parser) popDepth() {
	p.depth--
}

// parseValue dispatches on the next non-whitespace byte per spec.md §4.2.
func (p *parser) parseValue() (jvalue.Value, jverr.Status) {
	c, ok := p.peek()
	if !ok {
		return jvalue.Value{}, jverr.ExpectValue
	}

	switch c {
	case 'n':
		return p.parseNull()
	case 't', 'f':
		return p.parseBool()
	case '"':
		return p.parseString()
	case '[':
		return p.parseArray()
	case '{':
		return p.parseObject()
	default:
		return p.parseNumber()
	}
}

func (p *parser) literal(lit string, result jvalue.Value) (jvalue.Value, jverr.Status) {
	if p.pos+len(lit) > len(p.data) || string(p.data[p.pos:p.pos+len(lit)]) != lit {
		return jvalue.Value{}, jverr.InvalidValue
	}
	p.pos += len(lit)
	return result, jverr.Ok
}

func (p *parser) parseNull() (jvalue.Value, jverr.Status) {
	return p.literal("null", jvalue.Null())
}

func (p *parser) parseBool() (jvalue.Value, jverr.Status) {
	if p.data[p.pos] == 't' {
		return p.literal("true", jvalue.Bool(true))
	}
	return p.literal("false", jvalue.Bool(false))
}

// ---- Array: '[' ws (value (ws ',' ws value)* ws)? ']' ----

func (p *parser) parseArray() (jvalue.Value, jverr.Status) {
	if !p.pushDepth() {
		p.popDepth()
		return jvalue.Value{}, jverr.InvalidValue
	}
	defer p.popDepth()

	p.pos++ // consume '['
	p.skipWhitespace()

	v := jvalue.Array()
	if c, ok := p.peek(); ok && c == ']' {
		p.pos++
		return v, jverr.Ok
	}

	for {
		p.skipWhitespace()
		elem, status := p.parseValue()
		if status != jverr.Ok {
			return jvalue.Value{}, status
		}
		v.PushBack(elem)

		p.skipWhitespace()
		c, ok := p.peek()
		if !ok {
			return jvalue.Value{}, jverr.MissCommaOrSquareBracket
		}
		switch c {
		case ']':
			p.pos++
			return v, jverr.Ok
		case ',':
			p.pos++
		default:
			return jvalue.Value{}, jverr.MissCommaOrSquareBracket
		}
	}
}

// ---- Object: '{' ws (string ws ':' ws value (ws ',' ws string ws ':' ws value)* ws)? '}' ----

func (p *parser) parseObject() (jvalue.Value, jverr.Status) {
	if !p.pushDepth() {
		p.popDepth()
		return jvalue.Value{}, jverr.InvalidValue
	}
	defer p.popDepth()

	p.pos++ // consume '{'
	p.skipWhitespace()

	v := jvalue.Object()
	if c, ok := p.peek(); ok && c == '}' {
		p.pos++
		return v, jverr.Ok
	}

	for {
		p.skipWhitespace()
		c, ok := p.peek()
		if !ok || c != '"' {
			return jvalue.Value{}, jverr.MissKey
		}
		keyVal, status := p.parseString()
		if status != jverr.Ok {
			return jvalue.Value{}, status
		}
		key := keyVal.Str()

		p.skipWhitespace()
		if c, ok := p.peek(); !ok || c != ':' {
			return jvalue.Value{}, jverr.MissColon
		}
		p.pos++
		p.skipWhitespace()

		val, status := p.parseValue()
		if status != jverr.Ok {
			return jvalue.Value{}, status
		}
		// Duplicate keys: last-wins (spec.md §4.2.5).
		v.Set(key, val)

		p.skipWhitespace()
		c, ok = p.peek()
		if !ok {
			return jvalue.Value{}, jverr.MissCommaOrCurlyBracket
		}
		switch c {
		case '}':
			p.pos++
			return v, jverr.Ok
		case ',':
			p.pos++
		default:
			return jvalue.Value{}, jverr.MissCommaOrCurlyBracket
		}
	}
}

// ---- String ----

// parseString parses a JSON string starting at the opening quote and
// decodes all escapes per spec.md §4.3.
func (p *parser) parseString() (jvalue.Value, jverr.Status) {
	p.pos++ // consume opening '"'

	var buf []byte
	for {
		if p.pos >= len(p.data) {
			return jvalue.Value{}, jverr.MissQuotationMark
		}
		b := p.data[p.pos]

		switch {
		case b == '"':
			p.pos++
			return jvalue.String(string(buf)), jverr.Ok
		case b == '\\':
			p.pos++
			var status jverr.Status
			buf, status = p.consumeEscape(buf)
			if status != jverr.Ok {
				return jvalue.Value{}, status
			}
		case b < 0x20:
			return jvalue.Value{}, jverr.InvalidStringChar
		default:
			buf = append(buf, b)
			p.pos++
		}
	}
}

func (p *parser) consumeEscape(buf []byte) ([]byte, jverr.Status) {
	if p.pos >= len(p.data) {
		return nil, jverr.MissQuotationMark
	}
	b := p.data[p.pos]
	p.pos++

	switch b {
	case '"':
		return append(buf, '"'), jverr.Ok
	case '\\':
		return append(buf, '\\'), jverr.Ok
	case '/':
		return append(buf, '/'), jverr.Ok
	case 'b':
		return append(buf, 0x08), jverr.Ok
	case 'f':
		return append(buf, 0x0C), jverr.Ok
	case 'n':
		return append(buf, 0x0A), jverr.Ok
	case 'r':
		return append(buf, 0x0D), jverr.Ok
	case 't':
		return append(buf, 0x09), jverr.Ok
	case 'u':
		return p.consumeUnicodeEscape(buf)
	default:
		return nil, jverr.InvalidStringEscape
	}
}

func (p *parser) consumeUnicodeEscape(buf []byte) ([]byte, jverr.Status) {
	r1, status := p.readHex4()
	if status != jverr.Ok {
		return nil, status
	}

	if !jvutf8.IsHighSurrogate(r1) {
		// Lone low surrogates are accepted as ordinary BMP codepoints
		// per spec.md §9 (documented probable-bug-for-bug fidelity).
		return jvutf8.EncodeRune(buf, r1), jverr.Ok
	}

	if p.pos+1 >= len(p.data) || p.data[p.pos] != '\\' || p.data[p.pos+1] != 'u' {
		return nil, jverr.InvalidUnicodeSurrogate
	}
	p.pos += 2

	r2, status := p.readHex4()
	if status != jverr.Ok {
		return nil, status
	}
	combined, ok := jvutf8.CombineSurrogates(r1, r2)
	if !ok {
		return nil, jverr.InvalidUnicodeSurrogate
	}
	return jvutf8.EncodeRune(buf, combined), jverr.Ok
}

func (p *parser) readHex4() (rune, jverr.Status) {
	if p.pos+4 > len(p.data) {
		return 0, jverr.InvalidUnicodeHex
	}
	val, err := strconv.ParseUint(string(p.data[p.pos:p.pos+4]), 16, 16)
	if err != nil {
		return 0, jverr.InvalidUnicodeHex
	}
	p.pos += 4
	return rune(val), jverr.Ok
}

// ---- Number ----

// parseNumber walks the cursor over the number grammar of spec.md
// §4.2.2 without converting, then invokes strconv.ParseFloat on the
// matched substring.
func (p *parser) parseNumber() (jvalue.Value, jverr.Status) {
	start := p.pos

	if c, ok := p.peek(); ok && c == '-' {
		p.pos++
	}

	if status := p.scanIntegerPart(); status != jverr.Ok {
		return jvalue.Value{}, status
	}
	if status := p.scanFractionPart(); status != jverr.Ok {
		return jvalue.Value{}, status
	}
	if status := p.scanExponentPart(); status != jverr.Ok {
		return jvalue.Value{}, status
	}

	raw := string(p.data[start:p.pos])
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return jvalue.Value{}, jverr.NumberTooBig
		}
		return jvalue.Value{}, jverr.InvalidValue
	}
	return jvalue.Number(f), jverr.Ok
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (p *parser) scanIntegerPart() jverr.Status {
	if p.pos >= len(p.data) {
		return jverr.InvalidValue
	}

	if p.data[p.pos] == '0' {
		p.pos++
		return jverr.Ok
	}

	if !isDigit(p.data[p.pos]) {
		return jverr.InvalidValue
	}
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
	return jverr.Ok
}

func (p *parser) scanFractionPart() jverr.Status {
	if p.pos >= len(p.data) || p.data[p.pos] != '.' {
		return jverr.Ok
	}
	p.pos++

	if p.pos >= len(p.data) || !isDigit(p.data[p.pos]) {
		return jverr.InvalidValue
	}
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
	return jverr.Ok
}

func (p *parser) scanExponentPart() jverr.Status {
	if p.pos >= len(p.data) || (p.data[p.pos] != 'e' && p.data[p.pos] != 'E') {
		return jverr.Ok
	}
	p.pos++

	if p.pos < len(p.data) && (p.data[p.pos] == '+' || p.data[p.pos] == '-') {
		p.pos++
	}
	if p.pos >= len(p.data) || !isDigit(p.data[p.pos]) {
		return jverr.InvalidValue
	}
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
	return jverr.Ok
}
