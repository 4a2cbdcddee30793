// Package token provides lexing support for the INI-like configuration
// dialect.
//
// [Scanner] walks a byte slice keeping offsets that [PosDoc] maps back to
// line and column for error reporting. [Classify] gives bare scalars their
// type, and [Quote]/[QuoteMultiline] produce string forms that the scanner
// reads back exactly.
package token
