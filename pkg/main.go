package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	pkg "github.com/UID-Technologies/acado-engagement/pkg/internal"
	localCache "github.com/UID-Technologies/acado-engagement/pkg/internal/cache"
	"github.com/UID-Technologies/acado-engagement/pkg/internal/database"
	"github.com/UID-Technologies/acado-engagement/pkg/internal/gateway"
	"github.com/UID-Technologies/acado-engagement/pkg/internal/http"
	"github.com/UID-Technologies/acado-engagement/pkg/internal/store"
	cachestore "github.com/eko/gocache/lib/v4/store"
	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString("    _                   _\n   / \\   ___ __ _  __| | ___\n  / _ \\ / __/ _` |/ _` |/ _ \\\n / ___ \\ (_| (_| | (_| | (_) |\n/_/   \\_\\___\\__,_|\\__,_|\\___/"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Acado.Engagement"), pkg.AppVersion)
	fmt.Printf("The feed engagement cache in Acado\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Local cache
	if err := localCache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing local cache.")
	}
	if err := localCache.NewOverlay(); err != nil {
		log.Error().Err(err).Msg("An error occurred when connecting to the snapshot overlay. Cross-instance warming will be disabled.")
	}

	// Connect to database
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Build the engagement cache
	upstream := gateway.NewClient()
	engagement := store.New(upstream, upstream)

	var overlay cachestore.StoreInterface
	if localCache.O != nil {
		overlay = localCache.O
	}
	engagement.UseSnapshotStorage(database.C, overlay)
	engagement.RestoreSnapshots(context.Background())

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 5m", engagement.FlushSnapshots)
	quartz.AddFunc("@every 60m", store.DoAutoSnapshotCleanup)
	quartz.Start()

	// Server
	go http.NewServer(engagement).Listen()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
	engagement.FlushSnapshots()
}
