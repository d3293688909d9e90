package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
)

// loadFromEnv walks the config struct and overrides any field whose `env` tag
// names a set environment variable.
func loadFromEnv(config *Config) error {
	return processStructFields(reflect.ValueOf(config).Elem())
}

func processStructFields(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		structField := t.Field(i)

		if field.Kind() == reflect.Struct {
			if err := processStructFields(field); err != nil {
				return err
			}
			continue
		}

		envName := structField.Tag.Get("env")
		if envName == "" {
			continue
		}
		envValue, ok := os.LookupEnv(envName)
		if !ok {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(envValue)
		case reflect.Int:
			n, err := strconv.Atoi(envValue)
			if err != nil {
				return fmt.Errorf("invalid integer for %s: %w", envName, err)
			}
			field.SetInt(int64(n))
		case reflect.Bool:
			b, err := strconv.ParseBool(envValue)
			if err != nil {
				return fmt.Errorf("invalid boolean for %s: %w", envName, err)
			}
			field.SetBool(b)
		default:
			return fmt.Errorf("unsupported config field kind %s for %s", field.Kind(), envName)
		}
	}
	return nil
}
