package compiler

import "testing"

// simpleExpr is a small input used for benchmarking the fast path.
const simpleExpr = "5+20-4"

// complexExpr exercises nesting, every operator, and a comparison chain.
const complexExpr = "((1+2*(3+4)-5)/2+6*7-(8+9)/3)*2 <= 100 == 1"

// --- Lex benchmarks ---

func BenchmarkLex_Simple(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, err := Lex(simpleExpr)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLex_Complex(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, err := Lex(complexExpr)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// --- Parse benchmarks ---
// Tokens are pre-computed outside the timed region.

func BenchmarkParse_Simple(b *testing.B) {
	tokens, err := Lex(simpleExpr)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Parse(tokens, simpleExpr)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_Complex(b *testing.B) {
	tokens, err := Lex(complexExpr)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Parse(tokens, complexExpr)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// --- Generate benchmarks ---
// Tokens and AST are pre-computed outside the timed region.

func BenchmarkGenerate_Simple(b *testing.B) {
	tokens, err := Lex(simpleExpr)
	if err != nil {
		b.Fatal(err)
	}
	expr, err := Parse(tokens, simpleExpr)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Generate(expr)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGenerate_Complex(b *testing.B) {
	tokens, err := Lex(complexExpr)
	if err != nil {
		b.Fatal(err)
	}
	expr, err := Parse(tokens, complexExpr)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Generate(expr)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// --- Full pipeline benchmarks (Lex + Parse + Generate) ---

func BenchmarkCompilerPipeline_Simple(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, err := Compile(simpleExpr)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompilerPipeline_Complex(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, err := Compile(complexExpr)
		if err != nil {
			b.Fatal(err)
		}
	}
}
