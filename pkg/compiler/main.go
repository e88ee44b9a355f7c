// Package compiler provides the lexer, parser, and code generator for a
// small arithmetic expression language that targets x86-64 assembly in
// Intel syntax.
//
// Pipeline: expression → Lex → Parse → Generate → assembly text
package compiler
