package config

import (
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
	Port     int      `koanf:"port"`
	Frontend Frontend `koanf:"frontend"`
	Cors     Cors     `koanf:"cors"`
	Database Database `koanf:"db"`
	Stops    Stops    `koanf:"stops"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

type Cors struct {
	Origins []string `koanf:"origins"`
}

type Database struct {
	Path string `koanf:"path"`
}

type Stops struct {
	// MicroStopThresholdSeconds is the longest closed stop still ignored by the
	// daily analytics. 0 disables the exclusion. Open stops are never excluded.
	MicroStopThresholdSeconds int `koanf:"microstopthresholdseconds"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Port: 8181,
		Frontend: Frontend{
			Enabled: true,
		},
		Cors: Cors{
			Origins: []string{"http://localhost:3000"},
		},
		Database: Database{
			Path: "./data/lineboard.db",
		},
		Stops: Stops{
			MicroStopThresholdSeconds: 300,
		},
	}, "koanf"), nil)
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
		Prefix: "LINEBOARD_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "LINEBOARD_")), "_", ".")
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

	return app, nil
}
