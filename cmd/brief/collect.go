package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/thep200/daily-git-brief/api"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run one collection now and print its progress.",
	RunE:  runCollect,
}

func runCollect(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	app, err := api.Initialize(ctx, config, logger)
	if err != nil {
		return err
	}

	sub := app.CollectorAPI.Broadcaster().Subscribe()
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for event := range sub.C {
			printEvent(os.Stdout, event)
		}
	}()

	if err := app.CollectorAPI.StartCollection(ctx); err != nil {
		sub.Close()
		<-printed
		_ = app.Close()
		return err
	}
	app.CollectorAPI.Wait()
	status := app.CollectorAPI.Status()

	// Close đóng broadcaster nên vòng in ở trên sẽ kết thúc
	closeErr := app.Close()
	<-printed

	if status.LastError != "" {
		return errors.New(status.LastError)
	}
	return closeErr
}
