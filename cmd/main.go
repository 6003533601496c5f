// Package main runs the maaser ledger API.
package main

import (
	"github.com/rs/zerolog/log"

	"github.com/haim1120/maaserbot/cmd/httpserver"
	"github.com/haim1120/maaserbot/db/migration"
	"github.com/haim1120/maaserbot/internal/middleware"
	"github.com/haim1120/maaserbot/pkg/configpkg"
	"github.com/haim1120/maaserbot/pkg/dbpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	changed, err := migration.Up(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot migrate database")
	}

	logger.Info().Str("driver", config.DBDriver).Bool("changed", changed).Msg("database migrated")

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}
	defer db.Close()

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Str("address", config.ServerAddress).Msg("MAASER API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
