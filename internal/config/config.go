// Package config fills the program's settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Log struct {
	Level       string `env:"LOG_LEVEL,info"`
	ToFile      bool   `env:"LOG_TO_FILE,false"`
	FileName    string `env:"LOG_FILE_NAME,quadtree"`
	Dir         string `env:"LOG_DIR,./logs"`
	Formatted   bool   `env:"LOG_FORMATTED,true"`
	MaxFileSize int    `env:"LOG_MAX_SIZE,10"`
	MaxLogFiles int    `env:"LOG_MAX_FILES,5"`
}

type Redis struct {
	Addr     string `env:"QT_REDIS_ADDR,"`
	Password string `env:"QT_REDIS_PASSWORD,"`
	DB       int    `env:"QT_REDIS_DB,0"`
	Key      string `env:"QT_REDIS_KEY,quadtree:snapshot"`
}

type Config struct {
	Capacity     int     `env:"QT_CAPACITY,4"`
	Dim          float64 `env:"QT_DIM,400"`
	Seed         int64   `env:"QT_SEED,0"`
	SnapshotPath string  `env:"QT_SNAPSHOT_PATH,data.json"`
	RenderPath   string  `env:"QT_RENDER_PATH,quadtree.png"`
	RenderScale  int     `env:"QT_RENDER_SCALE,2"`

	Log   Log
	Redis Redis
}

// Load reads the .env files (default ".env"; a missing default file is not
// an error) into the process environment and then fills a Config.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !(len(files) == 0 && errors.Is(err, fs.ErrNotExist)) {
		return Config{}, fmt.Errorf("config: load env file: %w", err)
	}
	var cfg Config
	if err := Fill(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Capacity < 1 {
		return Config{}, fmt.Errorf("config: QT_CAPACITY must be at least 1, got %d", cfg.Capacity)
	}
	if cfg.Dim <= 0 {
		return Config{}, fmt.Errorf("config: QT_DIM must be positive, got %v", cfg.Dim)
	}
	if cfg.RenderScale < 1 {
		return Config{}, fmt.Errorf("config: QT_RENDER_SCALE must be at least 1, got %d", cfg.RenderScale)
	}
	return cfg, nil
}

// Fill sets the fields of the struct cfg points to from their `env` tags.
//
//	`env:"KEY"`          required
//	`env:"KEY,default"`  default used when KEY is unset
//
// A set but empty KEY keeps "" for an optional string field, so
// QT_RENDER_PATH= disables rendering; other kinds fall back to the default.
// Nested structs are filled recursively.
func Fill(cfg interface{}) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: expected a pointer to a struct, got %T", cfg)
	}
	return fill(v.Elem())
}

func fill(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field, sf := v.Field(i), t.Field(i)
		if field.Kind() == reflect.Struct {
			if err := fill(field); err != nil {
				return err
			}
			continue
		}
		tag := sf.Tag.Get("env")
		if tag == "" {
			continue
		}
		key, def, hasDef := strings.Cut(tag, ",")
		raw, ok := os.LookupEnv(key)
		// an empty string is a value only for optional string fields
		if raw == "" && !(ok && hasDef && field.Kind() == reflect.String) {
			if !hasDef {
				return fmt.Errorf("config: missing required variable %s", key)
			}
			raw = def
		}
		if err := set(field, raw); err != nil {
			return fmt.Errorf("config: %s=%q: %w", key, raw, err)
		}
	}
	return nil
}

func set(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}
