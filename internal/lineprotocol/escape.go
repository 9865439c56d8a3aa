package lineprotocol

import "strings"

// strings.Replacer выполняет замену за один проход слева направо,
// поэтому вставленные обратные слэши повторно не обрабатываются.
var (
	nameEscaper = strings.NewReplacer(
		",", `\,`,
		" ", `\ `,
	)
	keyEscaper = strings.NewReplacer(
		",", `\,`,
		"=", `\=`,
		" ", `\ `,
	)
	stringFieldEscaper = strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
	)
)

// EscapeName экранирует имя измерения: запятую и пробел.
// Знак равенства в позиции имени однозначен и не экранируется.
func EscapeName(s string) string {
	return nameEscaper.Replace(s)
}

// EscapeKey экранирует ключи тегов, значения тегов и ключи полей:
// запятую, знак равенства и пробел.
func EscapeKey(s string) string {
	return keyEscaper.Replace(s)
}

// EscapeStringField экранирует строковое значение поля: обратный слэш и
// двойную кавычку. Обрамляющие кавычки не добавляются.
func EscapeStringField(s string) string {
	return stringFieldEscaper.Replace(s)
}
