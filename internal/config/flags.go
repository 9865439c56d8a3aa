package config

import (
	"flag"
	"strconv"
	"strings"
)

// DefaultPort — порт InfluxDB по умолчанию.
const DefaultPort = 8086

// Имена флагов командной строки.
const (
	FlagAddress        = "a"
	FlagDatabaseDSN    = "d"
	FlagURL            = "u"
	FlagToken          = "t"
	FlagOrg            = "o"
	FlagBucket         = "b"
	FlagPollInterval   = "p"
	FlagReportInterval = "r"
	FlagWriteTimeout   = "timeout"
	FlagWriteGzip      = "gzip"
	FlagSocket         = "s"
	FlagLogLevel       = "log-level"
	FlagAuditFile      = "audit-file"
	FlagAuditURL       = "audit-url"
	FlagFileStorage    = "f"
	FlagStoreInterval  = "i"
	FlagRestore        = "r"
	FlagConfig         = "c"
)

// NetAddress представляет сетевой адрес с хостом и портом.
//
// Используется для конфигурации адреса сервера приёма через флаги командной строки или переменные окружения.
// Реализует интерфейсы flag.Value и AddrSetter.
type NetAddress struct {
	Host string // Имя хоста
	Port int    // Порт
}

// String возвращает строковое представление сетевого адреса в формате host:port.
func (a NetAddress) String() string {
	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set разбирает строку вида host:port и устанавливает значения Host и Port.
//
// Если порт не указан, используется DefaultPort.
// Возвращает ошибку, если порт не удаётся преобразовать в число.
func (a *NetAddress) Set(s string) error {
	hp := strings.Split(s, ":")
	a.Host = hp[0]
	if len(hp) == 2 {
		port, err := strconv.Atoi(hp[1])
		if err != nil {
			return err
		}
		a.Port = port
	} else {
		a.Port = DefaultPort
	}
	return nil
}

// ParseAddressFlag регистрирует флаг командной строки -a для указания сетевого адреса в fs.
//
// Возвращает указатель на NetAddress с дефолтными значениями (localhost:8086).
func ParseAddressFlag(fs *flag.FlagSet) *NetAddress {
	addr := &NetAddress{Host: "localhost", Port: DefaultPort}
	fs.Var(addr, FlagAddress, "Net address host:port")
	return addr
}
