package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Grant-Perry/BigWarRoom-sub012/config"
	"github.com/Grant-Perry/BigWarRoom-sub012/model"
	"github.com/Grant-Perry/BigWarRoom-sub012/platforms/espn"
	"github.com/Grant-Perry/BigWarRoom-sub012/platforms/sleeper"
	"github.com/Grant-Perry/BigWarRoom-sub012/players"
	"github.com/Grant-Perry/BigWarRoom-sub012/settings"
	"github.com/Grant-Perry/BigWarRoom-sub012/store"
	"github.com/Grant-Perry/BigWarRoom-sub012/web"
)

func main() {
	log := logrus.New()

	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.WithError(err).Fatal("error loading .env file")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.WithError(err).Fatal("error loading config")
	}
	configureLogger(log, cfg.Log)

	clock := clock.New()

	sleeperClient, err := sleeper.New(log)
	if err != nil {
		log.WithError(err).Fatal("error creating sleeper client")
	}
	scoreboard := espn.NewScoreboard(clock, log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	state, err := sleeperClient.State(ctx)
	if err != nil {
		log.WithError(err).Fatal("error fetching NFL state from sleeper")
	}
	season := state.Season
	if cfg.Sleeper.Season != 0 {
		season = cfg.Sleeper.Season
	}
	log.WithFields(logrus.Fields{"season": season, "week": state.Week}).Info("nfl calendar resolved")

	directory, err := players.NewDirectory(sleeperClient, clock, log)
	if err != nil {
		log.WithError(err).Fatal("error creating player directory")
	}
	if err := directory.UpdatePlayers(ctx); err != nil {
		log.WithError(err).Fatal("error loading player directory")
	}

	leagueDir, err := sleeper.NewDirectory(sleeperClient, cfg.Sleeper.Username, season, log)
	if err != nil {
		log.WithError(err).Fatal("error creating league directory")
	}
	oracle := sleeper.NewOracle(sleeperClient, cfg.Playoffs.FallbackWeekStart)
	factory, err := sleeper.NewFactory(sleeperClient, leagueDir, directory, scoreboard, log)
	if err != nil {
		log.WithError(err).Fatal("error creating provider factory")
	}

	prefs := settings.New(cfg.Prefs.ShowEliminatedLeagues)

	matchupStore, err := store.New(store.Config{
		Clock:               clock,
		Logger:              log,
		Leagues:             leagueDir,
		Providers:           factory,
		Playoffs:            oracle,
		Prefs:               prefs,
		Season:              season,
		LiveTTL:             cfg.Refresh.LiveTTL,
		IdleTTL:             cfg.Refresh.IdleTTL,
		FetchTimeout:        cfg.Refresh.FetchTimeout,
		PlayoffFallbackWeek: cfg.Playoffs.FallbackWeekStart,
	})
	if err != nil {
		log.WithError(err).Fatal("error creating matchup store")
	}

	// Warm a skeleton entry for every league on the account so observers
	// have something to attach to before the first hydrate.
	leagues, err := leagueDir.ActiveLeagues(ctx)
	if err != nil {
		log.WithError(err).Fatal("error listing leagues")
	}
	refs := make([]model.LeagueRef, 0, len(leagues))
	for _, l := range leagues {
		refs = append(refs, l.Ref())
	}
	matchupStore.WarmLeagues(refs, state.Week)
	log.WithField("leagues", len(refs)).Info("warmed league caches")

	server, err := web.NewServer(cfg.Server, matchupStore, prefs, season, log)
	if err != nil {
		log.WithError(err).Fatal("error creating web server")
	}

	shutdown := make(chan bool)
	wg := &sync.WaitGroup{}

	// Setup a handler to catch ctrl-c signals and properly shutdown everything.
	intChannel := make(chan os.Signal, 2)
	signal.Notify(intChannel, os.Interrupt)
	go func() {
		<-intChannel
		close(shutdown)

		if err := waitTimeout(wg, 10*time.Second); err != nil {
			log.Error("timed out waiting for proper shutdown")
			os.Exit(255)
		}
	}()

	// Refresh the player directory on a long cadence; the payload is large
	// and names change rarely.
	wg.Add(1)
	go directory.RunPeriodicUpdates(cfg.Players.UpdateInterval, shutdown, wg)

	// Refresh matchup data on a short cadence. TTL checks inside the store
	// keep idle leagues from hitting the platform.
	wg.Add(1)
	go matchupStore.RunPeriodicRefresh(cfg.Refresh.Interval, shutdown, wg)

	// Start the web server
	wg.Add(1)
	go server.ListenAndServe(shutdown, wg)

	// Wait for everything to stop.
	wg.Wait()
	log.Info("server shutdown")
}

// loadConfig reads the yaml config named by CONFIG_PATH, defaulting to
// config.yaml. With no file at all, defaults plus SLEEPER_USERNAME from the
// environment are enough to run.
func loadConfig() (*config.Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) || os.Getenv("CONFIG_PATH") != "" {
		return nil, err
	}

	cfg = config.Default()
	cfg.Sleeper.Username = os.Getenv("SLEEPER_USERNAME")
	if cfg.Sleeper.Username == "" {
		return nil, errors.New("no config file and SLEEPER_USERNAME is not set")
	}
	return cfg, nil
}

func configureLogger(log *logrus.Logger, cfg config.LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
}

func waitTimeout(wg *sync.WaitGroup, timeout time.Duration) error {
	c := make(chan any)
	go func() {
		defer close(c)
		wg.Wait()
	}()

	select {
	case <-c:
		return nil // completed normally
	case <-time.After(timeout):
		return errors.New("timed out waiting")
	}
}
