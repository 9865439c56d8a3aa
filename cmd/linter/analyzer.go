// Package linter содержит анализатор exitcheck: он запрещает аварийно завершать
// программу вне функции main пакета main.
//
// Сообщается о:
//   - вызове встроенного panic в любом месте;
//   - вызовах log.Fatal*, log.Panic* (функций и методов *log.Logger) и os.Exit вне main.main.
//
// Файлы *_test.go не проверяются.
package linter

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

// Analyzer — анализатор exitcheck.
var Analyzer = &analysis.Analyzer{
	Name:     "exitcheck",
	Doc:      "reports builtin panic everywhere and log.Fatal*/log.Panic*/os.Exit outside main.main",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// terminating — функции, завершающие процесс, по пути пакета.
var terminating = map[string]map[string]bool{
	"log": {
		"Fatal": true, "Fatalf": true, "Fatalln": true,
		"Panic": true, "Panicf": true, "Panicln": true,
	},
	"os": {"Exit": true},
}

func run(pass *analysis.Pass) (any, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	insp.WithStack([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return true
		}
		if isTestFile(pass, n) {
			return false
		}
		call := n.(*ast.CallExpr)

		switch fn := typeutil.Callee(pass.TypesInfo, call).(type) {
		case *types.Builtin:
			if fn.Name() == "panic" {
				pass.Reportf(call.Pos(), "use of builtin panic is discouraged")
			}
		case *types.Func:
			if fn.Pkg() == nil || !terminating[fn.Pkg().Path()][fn.Name()] {
				return true
			}
			if inMainMain(pass, stack) {
				return true
			}
			pass.Reportf(call.Pos(), "call to %s.%s outside main.main", fn.Pkg().Name(), fn.Name())
		}
		return true
	})

	return nil, nil
}

// inMainMain сообщает, находится ли узел внутри func main() пакета main,
// включая вложенные функциональные литералы.
func inMainMain(pass *analysis.Pass, stack []ast.Node) bool {
	if pass.Pkg.Name() != "main" {
		return false
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if fd, ok := stack[i].(*ast.FuncDecl); ok {
			return fd.Recv == nil && fd.Name.Name == "main"
		}
	}
	return false
}

func isTestFile(pass *analysis.Pass, n ast.Node) bool {
	f := pass.Fset.File(n.Pos())
	return f != nil && strings.HasSuffix(f.Name(), "_test.go")
}
