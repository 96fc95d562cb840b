package main

import (
	"io"
	"os"
)

type FlagType int
type FlagMap map[FlagType]string

const (
	listenAddress FlagType = iota
	servicePort

	configPath
	policiesPath

	logFormat

	strictSingular
	maxConcurrentFields
)

type AppConfig struct {
	sourcesConfig io.ReadCloser
	policies      io.ReadCloser
}

func (cfg *AppConfig) Close() {
	if cfg.sourcesConfig != nil {
		cfg.sourcesConfig.Close()
	}
	if cfg.policies != nil {
		cfg.policies.Close()
	}
}

func newAppConfig(flags FlagMap) (*AppConfig, error) {
	sourcesConfig, err := os.Open(flags[configPath])
	if err != nil {
		return nil, err
	}

	policies, err := os.Open(flags[policiesPath])
	if err != nil {
		sourcesConfig.Close()
		return nil, err
	}

	return &AppConfig{
		sourcesConfig: sourcesConfig,
		policies:      policies,
	}, nil
}
