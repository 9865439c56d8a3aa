package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/RoGogDBD/influx-writer/internal/config"
)

const (
	defaultURL            = "http://localhost:8086"
	defaultPollInterval   = 2 * time.Second
	defaultReportInterval = 10 * time.Second
	defaultWriteTimeout   = 5 * time.Second
	defaultLogLevel       = "info"
)

// writerConfig — итоговая конфигурация writer.
type writerConfig struct {
	URL            string
	Token          string
	Org            string
	Bucket         string
	Socket         string
	PollInterval   time.Duration
	ReportInterval time.Duration
	WriteTimeout   time.Duration
	Gzip           bool
	LogLevel       string
}

// parseWriterConfig собирает конфигурацию из значений по умолчанию, JSON-файла,
// флагов и переменных окружения. Каждый следующий источник перекрывает предыдущий.
func parseWriterConfig(args []string) (*writerConfig, error) {
	fs := flag.NewFlagSet("writer", flag.ContinueOnError)
	urlFlag := fs.String(config.FlagURL, defaultURL, "InfluxDB URL")
	tokenFlag := fs.String(config.FlagToken, "", "InfluxDB API token")
	orgFlag := fs.String(config.FlagOrg, "", "Organization")
	bucketFlag := fs.String(config.FlagBucket, "", "Bucket")
	socketFlag := fs.String(config.FlagSocket, "", "TCP line protocol endpoint host:port (replaces HTTP)")
	pollFlag := fs.String(config.FlagPollInterval, "", "Poll interval (seconds or duration)")
	reportFlag := fs.String(config.FlagReportInterval, "", "Report interval (seconds or duration)")
	timeoutFlag := fs.String(config.FlagWriteTimeout, "", "Write timeout (seconds or duration)")
	gzipFlag := fs.Bool(config.FlagWriteGzip, false, "Compress request bodies with gzip")
	logLevelFlag := fs.String(config.FlagLogLevel, defaultLogLevel, "Log level: debug, info, warn, error")
	configFlag := fs.String(config.FlagConfig, "", "Path to JSON config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	jsonCfg, err := config.LoadWriterJSONConfig(config.GetConfigFilePathWithFlag(*configFlag))
	if err != nil {
		return nil, err
	}

	cfg := &writerConfig{
		URL:            defaultURL,
		PollInterval:   defaultPollInterval,
		ReportInterval: defaultReportInterval,
		WriteTimeout:   defaultWriteTimeout,
		LogLevel:       defaultLogLevel,
	}

	// JSON
	setString(&cfg.URL, jsonCfg.URL)
	setString(&cfg.Token, jsonCfg.Token)
	setString(&cfg.Org, jsonCfg.Org)
	setString(&cfg.Bucket, jsonCfg.Bucket)
	setString(&cfg.Socket, jsonCfg.Socket)
	setString(&cfg.LogLevel, jsonCfg.LogLevel)
	if jsonCfg.Gzip != nil {
		cfg.Gzip = *jsonCfg.Gzip
	}
	for _, d := range []struct {
		dst *time.Duration
		val string
	}{
		{&cfg.PollInterval, jsonCfg.PollInterval},
		{&cfg.ReportInterval, jsonCfg.ReportInterval},
		{&cfg.WriteTimeout, jsonCfg.WriteTimeout},
	} {
		if err := setDuration(d.dst, d.val); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	}

	// Флаги, заданные явно
	if set[config.FlagURL] {
		cfg.URL = *urlFlag
	}
	if set[config.FlagToken] {
		cfg.Token = *tokenFlag
	}
	if set[config.FlagOrg] {
		cfg.Org = *orgFlag
	}
	if set[config.FlagBucket] {
		cfg.Bucket = *bucketFlag
	}
	if set[config.FlagSocket] {
		cfg.Socket = *socketFlag
	}
	if set[config.FlagLogLevel] {
		cfg.LogLevel = *logLevelFlag
	}
	if set[config.FlagWriteGzip] {
		cfg.Gzip = *gzipFlag
	}
	for _, d := range []struct {
		name string
		dst  *time.Duration
		val  string
	}{
		{config.FlagPollInterval, &cfg.PollInterval, *pollFlag},
		{config.FlagReportInterval, &cfg.ReportInterval, *reportFlag},
		{config.FlagWriteTimeout, &cfg.WriteTimeout, *timeoutFlag},
	} {
		if !set[d.name] {
			continue
		}
		if err := setDuration(d.dst, d.val); err != nil {
			return nil, fmt.Errorf("flag -%s: %w", d.name, err)
		}
	}

	// Переменные окружения
	setString(&cfg.URL, config.EnvString(config.EnvInfluxURL))
	setString(&cfg.Token, config.EnvString(config.EnvInfluxToken))
	setString(&cfg.Org, config.EnvString(config.EnvInfluxOrg))
	setString(&cfg.Bucket, config.EnvString(config.EnvInfluxBucket))
	setString(&cfg.Socket, config.EnvString(config.EnvInfluxSocket))
	setString(&cfg.LogLevel, config.EnvString(config.EnvLogLevel))
	if v, ok, err := config.EnvBool(config.EnvWriteGzip); err != nil {
		return nil, err
	} else if ok {
		cfg.Gzip = v
	}
	for _, d := range []struct {
		key string
		dst *time.Duration
	}{
		{config.EnvPollInterval, &cfg.PollInterval},
		{config.EnvReportInterval, &cfg.ReportInterval},
		{config.EnvWriteTimeout, &cfg.WriteTimeout},
	} {
		v, err := config.EnvDuration(d.key)
		if err != nil {
			return nil, err
		}
		if v != 0 {
			*d.dst = v
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *writerConfig) validate() error {
	if c.PollInterval <= 0 || c.ReportInterval <= 0 {
		return errors.New("poll and report intervals must be positive")
	}
	if c.Socket != "" {
		return nil
	}
	if c.Org == "" || c.Bucket == "" {
		return errors.New("org and bucket are required")
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) error {
	d, err := config.ParseDuration(v)
	if err != nil {
		return err
	}
	if d != 0 {
		*dst = d
	}
	return nil
}
