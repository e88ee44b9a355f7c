package translate

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Japanese strings for the toolchain diagnostics. The en-US key doubles as
// the default rendering, so missing entries fall back to English.
var japanese = map[string]string{
	// Driver messages
	"wrong number of arguments": "引数の個数が正しくありません",
	"exit status %d":            "終了ステータス %d",

	// Compiler diagnostics
	"unexpected character: %c":          "予期しない文字です: %c",
	"number out of range: %s":           "数値が大きすぎます: %s",
	"expected a number or '('":          "数値か '(' が必要です",
	"unclosed '('":                      "'(' が閉じられていません",
	"unexpected input after expression": "式の後に余分な入力があります",

	// Assembler diagnostics
	"unknown mnemonic":                  "不明なニーモニックです",
	"unknown directive":                 "不明なディレクティブです",
	"wrong number of operands":          "オペランドの個数が正しくありません",
	"invalid operand":                   "不正なオペランドです",
	"invalid label":                     "不正なラベルです",
	"label duplicated":                  "ラベルが重複しています",
	"'%v' is not a constant expression": "'%v' は定数式ではありません",
	"line %d '%v' %v":                   "%d行目 '%v' %v",

	// Machine faults
	"stack overflow":            "スタックオーバーフローです",
	"stack underflow":           "スタックアンダーフローです",
	"division by zero":          "ゼロ除算です",
	"quotient out of range":     "商が表現範囲を超えています",
	"program ended without ret": "ret を実行せずにプログラムが終了しました",
	"step limit exceeded":       "ステップ数の上限を超えました",
	"unknown instruction":       "不明な命令です",

	"fault at instruction %d: %v":     "命令 %d でフォルトが発生しました: %v",
	"fault at instruction %d: %s: %v": "命令 %d でフォルトが発生しました: %s: %v",
}

func registerCatalog() {
	for key, ja := range japanese {
		message.SetString(language.Japanese, key, ja)
	}
}
