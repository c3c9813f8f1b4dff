package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/google/uuid"
	"github.com/pkg/browser"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-auth-relay/internal/config"
	"github.com/jrsteele09/go-auth-relay/server"
	"github.com/jrsteele09/go-auth-relay/server/sessionrepo"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("error running relay")
	}
	log.Info().Msg("relay stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	accessKey := config.GetEnv("ACCESS_KEY", "")
	if accessKey == "" {
		accessKey = uuid.NewString()
		log.Info().Str("access_key", accessKey).Msg("generated access key")
	}

	controller := server.NewController(c, sessionrepo.NewInMemoryRepo())

	ctx := context.Background()
	result, err := controller.Start(ctx, accessKey)
	if err != nil {
		return fmt.Errorf("controller.Start: %w", err)
	}
	log.Info().Time("at", result.Timestamp).Msg(result.Status)

	openLoginPage(c, controller.Addr())

	waitForStopSignal()

	if result, err := controller.Stop(ctx); err != nil {
		return fmt.Errorf("controller.Stop: %w", err)
	} else if result != nil {
		log.Info().Time("at", result.Timestamp).Msg(result.Status)
	}
	return nil
}

func setupLogging(c config.Config) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if c.GetEnv() == "DEV" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// openLoginPage opens the local redirect endpoint in the default browser
// when requested, for setups where the companion browser runs on the same
// machine.
func openLoginPage(c config.Config, addr string) {
	if config.GetEnv("OPEN_BROWSER", "") != "true" {
		return
	}

	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		port = c.GetPort()
	}
	loginURL := fmt.Sprintf("http://localhost:%s/", port)
	if err := browser.OpenURL(loginURL); err != nil {
		log.Warn().Err(err).Str("url", loginURL).Msg("failed to open browser, open the URL manually")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
