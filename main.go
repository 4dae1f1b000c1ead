package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"time"

	"actbot/internal/adapters/transport"
	"actbot/internal/core/domain"
	"actbot/internal/core/domain/catalog"
	"actbot/internal/core/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	log.Info().Msg("starting actbot...")

	viper.AddConfigPath(".")
	viper.SetConfigType("toml")

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	var logLevel zerolog.Level

	switch viper.GetString("bot.log_level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	registry, err := catalog.Default()
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing command catalog")
	}

	path := viper.GetString("backend.path")
	if path == "" {
		path = "/ws"
	}

	backendURL := url.URL{
		Scheme: "ws",
		Host:   fmt.Sprintf("%s:%d", viper.GetString("backend.host"), viper.GetInt("backend.port")),
		Path:   path,
	}

	ws, err := transport.Dial(ctx, transport.DialParams{
		URL:            backendURL.String(),
		Token:          viper.GetString("backend.token"),
		ResponseBuffer: viper.GetInt("engine.response_buffer"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed connecting to backend")
	}
	defer ws.Close()

	defaultTimeout, err := time.ParseDuration(viper.GetString("engine.default_timeout"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid default timeout in config")
	}

	store := service.NewTicketStore()
	dispatcher := service.NewDispatcher(registry, store, ws, defaultTimeout)
	correlator := service.NewCorrelator(store, ws.Responses())

	go correlator.Run(ctx)

	log.Info().Strs("commands", registry.Names()).Msg("engine ready")

	probe(ctx, dispatcher)
}

// probe round-trips two queries to verify the backend answers commands.
func probe(ctx context.Context, dispatcher *service.Dispatcher) {
	handle, err := dispatcher.Dispatch(ctx, "GET_LOGIN_INFO", domain.Args{})
	if err != nil {
		log.Error().Err(err).Msg("failed dispatching login info probe")
		return
	}

	outcome, err := handle.Await(ctx)
	if err != nil {
		log.Error().Err(err).Msg("login info probe interrupted")
		return
	}

	if outcome.State != domain.StateResolved {
		log.Warn().Str("state", string(outcome.State)).Str("error", outcome.Error).
			Msg("login info probe did not resolve")
		return
	}

	var login struct {
		UserID   int64  `json:"user_id"`
		Nickname string `json:"nickname"`
	}

	if err := json.Unmarshal(outcome.Data, &login); err != nil {
		log.Warn().Err(err).Msg("unexpected login info payload")
	} else {
		log.Info().Int64("userId", login.UserID).Str("nickname", login.Nickname).
			Msg("logged in")
	}

	handle, err = dispatcher.Dispatch(ctx, "GET_GROUP_LIST", domain.Args{})
	if err != nil {
		log.Error().Err(err).Msg("failed dispatching group list probe")
		return
	}

	outcome, err = handle.Await(ctx)
	if err != nil {
		log.Error().Err(err).Msg("group list probe interrupted")
		return
	}

	if outcome.State != domain.StateResolved {
		log.Warn().Str("state", string(outcome.State)).Str("error", outcome.Error).
			Msg("group list probe did not resolve")
		return
	}

	var groups []json.RawMessage
	if err := json.Unmarshal(outcome.Data, &groups); err != nil {
		log.Warn().Err(err).Msg("unexpected group list payload")
		return
	}

	log.Info().Int("groups", len(groups)).Msg("backend probe complete")
}
