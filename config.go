package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// config is read from the environment; command line flags override it.
type config struct {
	DataFolder   string `env:"DATA_FOLDER" envDefault:"folhas_pagamento"`
	OutputFolder string `env:"OUTPUT_FOLDER" envDefault:"./"`
	Addr         string `env:"ADDR" envDefault:":8080"`
}

func loadConfig() (config, error) {
	var c config
	if err := env.Parse(&c); err != nil {
		return config{}, fmt.Errorf("error parsing environment: %w", err)
	}
	return c, nil
}
