package main

import (
	"github.com/okian/shoresquad/internal/smoke"
	"github.com/spf13/cobra"
)

func newSmokeCommand() *cobra.Command {
	cfg := &smoke.Config{}

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Post concurrent joins to a running page and verify the counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := smoke.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			cmd.Printf("JOINS\t\t%d/%d\n", stats.JoinsSuccessful, stats.JoinsSubmitted)
			cmd.Printf("PARTICIPANTS\t%d -> %d\n", stats.ParticipantsFrom, stats.ParticipantsTo)
			cmd.Printf("NOTIFICATIONS\t%d\n", stats.Notifications)
			cmd.Printf("DURATION\t%s\n", stats.Duration)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the page service")
	f.StringVar(&cfg.EventID, "event", "", "event to join (default: first listed)")
	f.IntVar(&cfg.Joins, "joins", smoke.DefaultJoins, "number of joins to post")
	f.IntVar(&cfg.Workers, "workers", smoke.DefaultWorkers, "number of concurrent workers")
	f.DurationVar(&cfg.Timeout, "timeout", smoke.DefaultTimeout, "HTTP request timeout")
	f.DurationVar(&cfg.NotifyWait, "notify-wait", smoke.DefaultNotifyWait, "how long to wait for join notifications")
	return cmd
}
