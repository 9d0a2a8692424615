// Package config holds the shell's user configuration.
package config

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ConfigurationName is the file the shell looks for in its config
// directory.
const ConfigurationName = "config.yaml"

const (
	DefaultPrompt   = `\u@\h:\w\$ `
	DefaultSSHAddr  = ":2222"
	DefaultLogLevel = "info"
)

type Configuration struct {
	// Prompt is a PS1-style prompt template. \u, \h, \w and \$ expand to
	// the user, host, working directory and privilege marker.
	Prompt string `yaml:"prompt"`

	// LogLevel is the minimum level engine diagnostics are emitted at.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// HistoryFile persists readline history between local sessions when
	// non-empty.
	HistoryFile string `yaml:"history_file"`

	// Env seeds the environment of every new shell.
	Env map[string]string `yaml:"env"`

	SSH SSH `yaml:"ssh"`
}

// SSH configures the serve mode.
type SSH struct {
	Addr        string `yaml:"addr"`
	HostKeyPath string `yaml:"host_key_path"`
	Users       []User `yaml:"users" validate:"unique=Username,dive"`
}

type User struct {
	Username string `yaml:"username" validate:"required"`
	Password string `yaml:"password" validate:"required"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	})

	return validate.Struct(c)
}

// Password returns the expected password for username, with a boolean
// reporting whether the user is known.
func (c *Configuration) Password(username string) (string, bool) {
	for _, u := range c.SSH.Users {
		if u.Username == username {
			return u.Password, true
		}
	}
	return "", false
}

// Default returns the configuration used when no file is present.
func Default() *Configuration {
	return &Configuration{
		Prompt:   DefaultPrompt,
		LogLevel: DefaultLogLevel,
		SSH: SSH{
			Addr: DefaultSSHAddr,
		},
	}
}
