package internal

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// WordList reads a comma separated environment value. The library's slice
// handling splits on "|" and its tag options cannot carry a comma, so the
// csv form goes through the env.Unmarshaler hook instead.
type WordList []string

func (w *WordList) UnmarshalEnvironmentValue(data string) error {
	var words []string
	for _, part := range strings.Split(data, ",") {
		if word := strings.TrimSpace(part); word != "" {
			words = append(words, word)
		}
	}
	*w = words
	return nil
}

// Config is the server environment. Every variable has a default so the
// binary runs with zero configuration, listening on the historical port.
type Config struct {
	Host            string        `env:"HOST,default=0.0.0.0"`
	Port            int           `env:"PORT,default=54000" validate:"min=1,max=65535"`
	LogLevel        string        `env:"LOG_LEVEL,default=info" validate:"oneof=debug info warn error"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=30s" validate:"min=1s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"min=10ms"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s" validate:"min=100ms"`
	CensoredWords   WordList      `env:"CENSORED_WORDS"`
	CharReplacement string        `env:"CHARACTER_REPLACEMENT,default=*"`
}

func (c Config) Validate() error {
	return validator.New().Struct(c)
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
