package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Prthmsh0210/hire-nerd/internal/app"
	"github.com/Prthmsh0210/hire-nerd/internal/backend"
	"github.com/Prthmsh0210/hire-nerd/internal/logger"
	"github.com/Prthmsh0210/hire-nerd/internal/secrets"
)

// setup builds the logger, the config and a session against the backend.
// Any failure here is fatal for the command.
func setup() (*zap.Logger, *Config, *app.Session) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the hire-nerd", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	token, err := secrets.Optional(secrets.Source{
		Name:  "backend token",
		Value: config.Backend.Token,
		File:  config.Backend.TokenFile,
	})
	if err != nil {
		logger.Fatal(
			"loading backend token",
			zap.Error(err),
			zap.String("hint", "set HIRENERD_BACKEND_TOKEN_FILE or the 'backend.token-file' key, or leave both unset"),
		)
	}

	client := backend.New(logger.Named("backend"), backend.Options{
		APIURL:    config.Backend.URL,
		Timeout:   config.Backend.Timeout,
		UserAgent: config.Backend.UserAgent,
		Token:     token,
	})

	session := app.New(client, app.Options{
		Origin:    config.Backend.Origin,
		ReportDir: config.Report.Dir,
	}, logger)

	return logger, config, session
}

func redacted(config *Config) *Config {
	c := *config
	b := *config.Backend
	if b.Token != "" {
		b.Token = "***"
	}
	c.Backend = &b
	return &c
}
