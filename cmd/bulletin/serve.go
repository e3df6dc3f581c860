package main

import (
	"os"

	"MarketBulletin/internal/notifier"
	"MarketBulletin/internal/scheduler"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the report on a schedule and answers Telegram commands.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()

		var tn *notifier.TelegramNotifier
		if a.cfg.TelegramEnabled() {
			tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy)
		} else {
			zap.L().Warn("telegram credentials missing, notifications disabled")
		}

		sched := scheduler.NewScheduler(ctx, a.runner, a.env, tn, a.rec)
		sched.SendDocuments = a.cfg.Telegram.SendDocuments
		if err := sched.RegisterAll(a.cfg.Schedule.DailyCron, a.cfg.Schedule.PCRCron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		if tn != nil {
			sched.Go(func() { tn.StartPolling(ctx, sched.HandleCommand) })
			zap.L().Info("telegram polling started")
		}

		if os.Getenv("RUN_ON_START") == "true" {
			zap.L().Info("RUN_ON_START enabled, running report now")
			sched.Go(sched.RunNow)
		}

		zap.L().Info("market bulletin is running, press Ctrl+C to stop")
		<-ctx.Done()
		zap.L().Info("shutdown signal received, stopping")
		return nil
	},
}
