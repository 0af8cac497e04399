package codec

import (
	"errors"
	"fmt"
	"io"
)

// Kind classifies a Token.
type Kind int

const (
	Invalid Kind = iota
	BeginObject
	EndObject
	BeginArray
	EndArray
	Name
	String
	Number
	Bool
	Null
)

func (k Kind) String() string {
	switch k {
	case BeginObject:
		return "BeginObject"
	case EndObject:
		return "EndObject"
	case BeginArray:
		return "BeginArray"
	case EndArray:
		return "EndArray"
	case Name:
		return "Name"
	case String:
		return "String"
	case Number:
		return "Number"
	case Bool:
		return "Bool"
	case Null:
		return "Null"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsValue reports whether a token of kind k starts a value.
func (k Kind) IsValue() bool {
	switch k {
	case BeginObject, BeginArray, String, Number, Bool, Null:
		return true
	}
	return false
}

// Token is one element of a structured token stream. Text holds the name of
// a Name token, the contents of a String token, the decimal text of a Number
// token and "true" or "false" for a Bool token.
type Token struct {
	Kind Kind
	Text string
}

var (
	BeginObjectToken = Token{Kind: BeginObject}
	EndObjectToken   = Token{Kind: EndObject}
	BeginArrayToken  = Token{Kind: BeginArray}
	EndArrayToken    = Token{Kind: EndArray}
	NullToken        = Token{Kind: Null}
)

func NameToken(name string) Token { return Token{Kind: Name, Text: name} }
func StringToken(s string) Token  { return Token{Kind: String, Text: s} }
func NumberToken(n string) Token  { return Token{Kind: Number, Text: n} }
func BoolToken(b bool) Token {
	if b {
		return Token{Kind: Bool, Text: "true"}
	}
	return Token{Kind: Bool, Text: "false"}
}

// Bool returns the value of a Bool token.
func (t Token) Bool() bool {
	return t.Kind == Bool && t.Text == "true"
}

func (t Token) String() string {
	switch t.Kind {
	case Name, String, Number, Bool:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	}
	return t.Kind.String()
}

// Reader is a source of tokens. Next returns io.EOF when the input is
// exhausted between values and io.ErrUnexpectedEOF when it ends inside one.
type Reader interface {
	Next() (Token, error)
}

// Writer is a sink of tokens. Output may be buffered until Flush.
type Writer interface {
	WriteToken(Token) error
	Flush() error
}

// Skip consumes one complete value from r.
func Skip(r Reader) error {
	depth := 0
	for {
		tok, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		switch tok.Kind {
		case BeginObject, BeginArray:
			depth++
		case EndObject, EndArray:
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unexpected %s", ErrFormat, tok.Kind)
			}
		case Name:
			if depth == 0 {
				return fmt.Errorf("%w: unexpected %s", ErrFormat, tok)
			}
			continue
		}
		if depth == 0 {
			return nil
		}
	}
}
