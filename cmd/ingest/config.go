package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/RoGogDBD/influx-writer/internal/config"
	"github.com/RoGogDBD/influx-writer/internal/config/db"
)

// ingestConfig — итоговая конфигурация сервера приёма.
type ingestConfig struct {
	Address       string
	DatabaseDSN   string
	MigrationsDir string
	Token         string
	LogLevel      string
	AuditFile     string
	AuditURL      string
	FileStorage   string
	StoreInterval time.Duration
	Restore       bool
}

const defaultStoreInterval = 300 * time.Second

// parseIngestConfig собирает конфигурацию по схеме env > флаг > JSON > значение по умолчанию.
func parseIngestConfig(args []string) (*ingestConfig, error) {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	addr := config.ParseAddressFlag(fs)
	dsnFlag := fs.String(config.FlagDatabaseDSN, "", "PostgreSQL DSN (memory storage if empty)")
	tokenFlag := fs.String(config.FlagToken, "", "Required API token (no auth if empty)")
	logLevelFlag := fs.String(config.FlagLogLevel, "info", "Log level: debug, info, warn, error")
	auditFileFlag := fs.String(config.FlagAuditFile, "", "Path to audit log file")
	auditURLFlag := fs.String(config.FlagAuditURL, "", "URL of remote audit receiver")
	fileFlag := fs.String(config.FlagFileStorage, "", "Snapshot file for in-memory storage (disabled if empty)")
	storeFlag := fs.String(config.FlagStoreInterval, "300", "Snapshot interval (seconds or duration, 0 = after every write)")
	restoreFlag := fs.Bool(config.FlagRestore, true, "Restore points from the snapshot file at startup")
	migrationsFlag := fs.String("migrations", db.DefaultMigrationsDir, "Migrations directory")
	configFlag := fs.String(config.FlagConfig, "", "Path to JSON config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	jsonCfg, err := config.LoadIngestJSONConfig(config.GetConfigFilePathWithFlag(*configFlag))
	if err != nil {
		return nil, err
	}

	pick := func(name, flagVal, jsonVal, envKey string) string {
		if v := config.EnvString(envKey); v != "" {
			return v
		}
		if set[name] {
			return flagVal
		}
		if jsonVal != "" {
			return jsonVal
		}
		return flagVal
	}

	if !set[config.FlagAddress] && jsonCfg.Address != "" {
		if err := addr.Set(jsonCfg.Address); err != nil {
			return nil, err
		}
	}
	if err := config.EnvServer(addr, config.EnvAddress); err != nil {
		return nil, err
	}

	storeInterval := defaultStoreInterval
	storeRaw := pick(config.FlagStoreInterval, *storeFlag, jsonCfg.StoreInterval, config.EnvStoreInterval)
	if storeRaw != "" {
		d, err := config.ParseDuration(storeRaw)
		if err != nil {
			return nil, fmt.Errorf("store interval: %w", err)
		}
		storeInterval = d
	}

	restore := *restoreFlag
	if !set[config.FlagRestore] && jsonCfg.Restore != nil {
		restore = *jsonCfg.Restore
	}
	if v, ok, err := config.EnvBool(config.EnvRestore); err != nil {
		return nil, err
	} else if ok {
		restore = v
	}

	return &ingestConfig{
		Address:       addr.String(),
		DatabaseDSN:   pick(config.FlagDatabaseDSN, *dsnFlag, jsonCfg.DatabaseDSN, config.EnvDatabaseDSN),
		MigrationsDir: *migrationsFlag,
		Token:         pick(config.FlagToken, *tokenFlag, jsonCfg.Token, config.EnvInfluxToken),
		LogLevel:      pick(config.FlagLogLevel, *logLevelFlag, jsonCfg.LogLevel, config.EnvLogLevel),
		AuditFile:     pick(config.FlagAuditFile, *auditFileFlag, jsonCfg.AuditFile, config.EnvAuditFile),
		AuditURL:      pick(config.FlagAuditURL, *auditURLFlag, jsonCfg.AuditURL, config.EnvAuditURL),
		FileStorage:   pick(config.FlagFileStorage, *fileFlag, jsonCfg.FileStorage, config.EnvFileStorage),
		StoreInterval: storeInterval,
		Restore:       restore,
	}, nil
}
