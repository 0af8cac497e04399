package codec

import (
	"errors"
	"fmt"
	"io"
)

// Copy reads one complete value from r and writes it to w. It returns io.EOF
// when r holds no further value. w is not flushed.
func Copy(w Writer, r Reader) error {
	depth := 0
	for first := true; ; first = false {
		tok, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if first {
					return io.EOF
				}
				return io.ErrUnexpectedEOF
			}
			return err
		}
		switch tok.Kind {
		case BeginObject, BeginArray:
			depth++
		case EndObject, EndArray:
			depth--
		}
		if depth < 0 {
			return fmt.Errorf("%w: unexpected %s", ErrFormat, tok.Kind)
		}
		if err := w.WriteToken(tok); err != nil {
			return err
		}
		if depth == 0 && tok.Kind != Name {
			return nil
		}
	}
}

// CopyAll copies every value of r to w and flushes w.
func CopyAll(w Writer, r Reader) error {
	for {
		err := Copy(w, r)
		if errors.Is(err, io.EOF) {
			return w.Flush()
		}
		if err != nil {
			return err
		}
	}
}
