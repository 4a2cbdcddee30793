package parse

import (
	"errors"
	"fmt"

	"github.com/signadot/cfgtree/token"
)

var (
	ErrParse     = errors.New("parse error")
	ErrNoRef     = fmt.Errorf("%w: unknown reference", ErrParse)
	ErrRefCycle  = fmt.Errorf("%w: reference cycle", ErrParse)
	ErrNotObject = fmt.Errorf("%w: path through non-object", ErrParse)
)

// posErr builds a positional error wrapping err, which should itself wrap
// ErrParse.
func posErr(err error, p *token.Pos) error {
	return token.NewTokenizeErr(err, p)
}

func errAt(p *token.Pos, format string, args ...any) error {
	return posErr(fmt.Errorf("%w: "+format, append([]any{ErrParse}, args...)...), p)
}

// wrapTokErr makes scanner errors wrap ErrParse while keeping their
// position.
func wrapTokErr(err error) error {
	var te *token.TokenizeErr
	if errors.As(err, &te) {
		return posErr(fmt.Errorf("%w: %w", ErrParse, te.Err), &te.Pos)
	}
	if errors.Is(err, ErrParse) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrParse, err)
}
