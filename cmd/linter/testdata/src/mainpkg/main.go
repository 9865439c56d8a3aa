package main

import (
	"log"
	"os"
)

func run() error { return nil }

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
	defer func() {
		os.Exit(0)
	}()
}

func helper() {
	os.Exit(2) // want "call to os.Exit outside main.main"
}

type service struct{}

func (service) main() {
	log.Fatalln("method named main") // want "call to log.Fatalln outside main.main"
}

var _ = helper
var _ = service{}.main
