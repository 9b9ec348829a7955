package internal

import (
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            54000,
		LogLevel:        "info",
		MetricInterval:  30 * time.Second,
		RestartInterval: 200 * time.Millisecond,
		ShutdownTimeout: 5 * time.Second,
		CharReplacement: "*",
	}
}

func TestConfig_Validate(t *testing.T) {
	req := require.New(t)

	req.NoError(validConfig().Validate())

	bad := validConfig()
	bad.Port = 0
	req.Error(bad.Validate())

	bad = validConfig()
	bad.LogLevel = "verbose"
	req.Error(bad.Validate())

	bad = validConfig()
	bad.MetricInterval = 0
	req.Error(bad.Validate())
}

func TestConfig_Addr(t *testing.T) {
	req := require.New(t)

	config := validConfig()
	config.Host = "127.0.0.1"
	config.Port = 9000
	req.Equal("127.0.0.1:9000", config.Addr())
}

func TestConfig_Defaults_From_Environ(t *testing.T) {
	req := require.New(t)
	t.Setenv("PORT", "9000")
	t.Setenv("CENSORED_WORDS", "badger,snake")

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)

	req.Equal(9000, config.Port)
	req.Equal("0.0.0.0", config.Host)
	req.Equal("info", config.LogLevel)
	req.Equal(30*time.Second, config.MetricInterval)
	req.Equal(WordList{"badger", "snake"}, config.CensoredWords)
	req.NoError(config.Validate())
}

func TestWordList_Unmarshal(t *testing.T) {
	req := require.New(t)

	cases := []struct {
		name     string
		data     string
		expected WordList
	}{
		{name: "Comma separated", data: "badger,snake", expected: WordList{"badger", "snake"}},
		{name: "Spaces trimmed", data: " badger , snake ", expected: WordList{"badger", "snake"}},
		{name: "Empty parts dropped", data: "badger,,snake,", expected: WordList{"badger", "snake"}},
		{name: "Single word", data: "badger", expected: WordList{"badger"}},
		{name: "Empty value", data: "", expected: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var words WordList
			req.NoError(words.UnmarshalEnvironmentValue(tc.data))
			req.Equal(tc.expected, words)
		})
	}
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)

	r, err := CharacterRune("*")
	req.NoError(err)
	req.Equal('*', r)

	r, err = CharacterRune("é")
	req.NoError(err)
	req.Equal('é', r)

	_, err = CharacterRune("ab")
	req.Error(err)

	_, err = CharacterRune("")
	req.Error(err)
}
