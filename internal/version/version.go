// Package version хранит сведения о сборке, задаваемые через -ldflags:
//
//	go build -ldflags "-X github.com/RoGogDBD/influx-writer/internal/version.buildVersion=v1.0.0"
package version

import (
	"fmt"
	"io"
)

var (
	// buildVersion — версия сборки приложения.
	buildVersion string
	// buildDate — дата сборки приложения.
	buildDate string
	// buildCommit — хеш коммита сборки.
	buildCommit string
)

// Info — сведения о сборке. Незаданные значения равны "N/A".
type Info struct {
	Version string
	Date    string
	Commit  string
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Get возвращает сведения о текущей сборке.
func Get() Info {
	return Info{
		Version: orNA(buildVersion),
		Date:    orNA(buildDate),
		Commit:  orNA(buildCommit),
	}
}

// UserAgent возвращает значение заголовка User-Agent для клиента записи.
func (i Info) UserAgent() string {
	return "influx-writer/" + i.Version
}

// PrintBuildInfo выводит информацию о сборке приложения в w.
func PrintBuildInfo(w io.Writer) {
	info := Get()
	fmt.Fprintf(w, "Build version: %s\n", info.Version)
	fmt.Fprintf(w, "Build date: %s\n", info.Date)
	fmt.Fprintf(w, "Build commit: %s\n", info.Commit)
}
