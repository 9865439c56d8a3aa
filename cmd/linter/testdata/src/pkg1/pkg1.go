package pkg1

import (
	"log"
	"os"
)

func mustEncode(line string) string {
	if line == "" {
		panic("empty line") // want "use of builtin panic is discouraged"
	}
	return line
}

func flushOrDie(err error) {
	if err != nil {
		log.Fatalf("flush: %v", err) // want "call to log.Fatalf outside main.main"
	}
}

func shutdown() {
	os.Exit(1) // want "call to os.Exit outside main.main"
}

func writerLogger(l *log.Logger) {
	l.Panicln("broken writer") // want "call to log.Panicln outside main.main"
}

func report(n int) {
	log.Printf("written %d measurements", n)
}

type local struct{}

func (local) Exit(int) {}

func shadowed() {
	var os local
	os.Exit(2)
}

var _ = mustEncode
var _ = flushOrDie
var _ = shutdown
var _ = writerLogger
var _ = report
var _ = shadowed
