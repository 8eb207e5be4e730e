// File: doc.go
// Title: Lexer Package Documentation
// Description: Lexical analyzer for the mIDE teaching language.
// Author: msto63
// Version: v0.2.1
// Created: 2026-10-12
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-12 v0.1.0: Initial lexer implementation
// - 2026-10-17 v0.2.1: Package comment no longer nests a comment terminator

/*
Package lexer turns program text into an ordered token list plus a list of
lexical diagnostics.

Scanning happens in two phases:

  • Block comments (slash-star ... star-slash) are located across the
    whole input first and emitted as single COMMENT tokens anchored at
    their starting position.
  • The remaining text is matched against an ordered pattern table; the
    first pattern that matches at the current position wins.

Tokenize is a pure function. Malformed input never stops the scan: an
invalid decimal such as "5." or an unknown character is reported as a
LexicalError and scanning resumes right after it.
*/
package lexer
