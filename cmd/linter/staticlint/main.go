// Command staticlint запускает exitcheck вместе с набором стандартных
// анализаторов golang.org/x/tools.
//
// Использование:
//
//	go run ./cmd/linter/staticlint ./...
package main

import (
	"github.com/RoGogDBD/influx-writer/cmd/linter"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unreachable"
)

func main() {
	multichecker.Main(
		linter.Analyzer,
		errorsas.Analyzer,
		lostcancel.Analyzer,
		nilness.Analyzer,
		printf.Analyzer,
		shadow.Analyzer,
		structtag.Analyzer,
		unreachable.Analyzer,
	)
}
