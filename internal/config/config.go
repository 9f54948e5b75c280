package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host     string   `koanf:"host"`
	Port     int      `koanf:"port"`
	Database Database `koanf:"db"`
	Forecast Forecast `koanf:"forecast"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Forecast struct {
	Daily   DailyForecast   `koanf:"daily"`
	Monthly MonthlyForecast `koanf:"monthly"`
	// MinSeasonalCycles is the number of complete seasonal cycles a series needs before a model is fitted.
	MinSeasonalCycles int `koanf:"minseasonalcycles"`
}

type DailyForecast struct {
	WindowDays      int `koanf:"windowdays"`
	SeasonalPeriods int `koanf:"seasonalperiods"`
}

type MonthlyForecast struct {
	SeasonalPeriods int `koanf:"seasonalperiods"`
	// ExcludePermanent makes the monthly series skip permanent entries the same way the daily series does.
	ExcludePermanent bool `koanf:"excludepermanent"`
}

func DefaultForecast() Forecast {
	return Forecast{
		Daily: DailyForecast{
			WindowDays:      360,
			SeasonalPeriods: 50,
		},
		Monthly: MonthlyForecast{
			SeasonalPeriods:  4,
			ExcludePermanent: false,
		},
		MinSeasonalCycles: 2,
	}
}

var ErrInvalidConfig = errors.New("invalid configuration")

// Validate rejects forecast settings that cannot produce a series or a seasonal model.
func (f Forecast) Validate() error {
	if f.Daily.WindowDays < 0 {
		return fmt.Errorf("%w: forecast.daily.windowdays must not be negative, got %d", ErrInvalidConfig, f.Daily.WindowDays)
	}
	if f.Daily.SeasonalPeriods < 2 {
		return fmt.Errorf("%w: forecast.daily.seasonalperiods must be at least 2, got %d", ErrInvalidConfig, f.Daily.SeasonalPeriods)
	}
	if f.Monthly.SeasonalPeriods < 2 {
		return fmt.Errorf("%w: forecast.monthly.seasonalperiods must be at least 2, got %d", ErrInvalidConfig, f.Monthly.SeasonalPeriods)
	}
	if f.MinSeasonalCycles < 2 {
		return fmt.Errorf("%w: forecast.minseasonalcycles must be at least 2, got %d", ErrInvalidConfig, f.MinSeasonalCycles)
	}
	return nil
}

func Default() Application {
	return Application{
		Host: "http://localhost:8181",
		Port: 8181,
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "finflow",
			Pass:   "",
			Name:   "finflow",
			Schema: "finflow",
		},
		Forecast: DefaultForecast(),
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Default(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "FINFLOW_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "FINFLOW_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if err := app.Forecast.Validate(); err != nil {
		log.Errorf("error validating config: %v", err)
		return Application{}, err
	}

	return app, nil
}
