// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Periodically re-read the channel into the SQLite store",
	Long: `Watch forces a channel refresh on a fixed schedule and saves every parsed
candidate to the SQLite store, so history keeps posts that have scrolled out
of the channel's recent page. It runs once at start and then every --every
until interrupted.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	every, _ := cmd.Flags().GetDuration("every")
	if every < time.Minute {
		return fmt.Errorf("--every must be at least 1m, got %s", every)
	}

	st, err := openStore(appCfg)
	if err != nil {
		return err
	}
	defer st.Close()

	cache := newCache(appCfg, st)
	if cache == nil {
		return fmt.Errorf("no channel configured: set channel.username or TALENT_RADAR_CHANNEL_USERNAME")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	refresh := func() {
		if err := cache.Refresh(ctx); err != nil {
			logger.Warn("scheduled refresh failed", zap.Error(err))
		}
	}

	cronLog := cron.PrintfLogger(zap.NewStdLog(logger.Named("cron")))
	c := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	spec := "@every " + every.String()
	if _, err := c.AddFunc(spec, refresh); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	logger.Info("watching channel",
		zap.String("channel", cache.Channel()),
		zap.String("spec", spec))
	refresh()

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info("watch stopped")
	return nil
}

func init() {
	watchCmd.Flags().Duration("every", 30*time.Minute, "refresh interval")

	rootCmd.AddCommand(watchCmd)
}
