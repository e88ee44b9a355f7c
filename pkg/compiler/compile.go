package compiler

// Compile translates src, a single arithmetic expression, into a complete
// x86-64 assembly listing. On any error no assembly is produced, so a
// failed compile never leaves partial output behind.
func Compile(src string) (string, error) {
	tokens, err := Lex(src)
	if err != nil {
		return "", err
	}
	expr, err := Parse(tokens, src)
	if err != nil {
		return "", err
	}
	return Generate(expr)
}
