package main

import (
	"fmt"
	"time"

	"github.com/okian/shoresquad/internal/config"
	"github.com/okian/shoresquad/internal/domain/weather"
	"github.com/okian/shoresquad/internal/presenter"
	"github.com/okian/shoresquad/pkg/logger"
	"github.com/spf13/cobra"
)

func newWeatherCommand(cfg func() *config.Config) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Fetch the weather once and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := cfg()
			ref := weather.Date(time.Now())
			if pinned, ok := c.Reference(); ok {
				ref = pinned
			}
			if date != "" {
				t, err := time.Parse(time.DateOnly, date)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				ref = t
			}

			gw := buildGateway(c, logger.Get())
			snap, err := gw.Fetch(cmd.Context(), ref)
			if err != nil {
				return err
			}
			printSnapshot(cmd, gw.Strategy(), snap)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "reference date (YYYY-MM-DD), defaults to today")
	return cmd
}

func printSnapshot(cmd *cobra.Command, strategy string, s weather.Snapshot) {
	cur := s.Current
	cmd.Printf("STRATEGY\t%s\n", strategy)
	cmd.Printf("NOW\t\t%s°C  %s %s\n", presenter.FormatTemperature(cur.Temperature), presenter.Icon(cur.ForecastText), cur.ForecastText)
	cmd.Printf("HUMIDITY\t%d-%d%%\n", cur.Humidity.Low, cur.Humidity.High)
	cmd.Printf("WIND\t\t%d-%d km/h %s\n", cur.WindSpeed.Low, cur.WindSpeed.High, cur.WindDirection)
	for _, d := range s.ForecastDays {
		cmd.Printf("%s\t%d-%d°C  %s %s\n",
			d.Date.Format(presenter.DefaultDayLayout),
			d.Temperature.Low, d.Temperature.High,
			presenter.Icon(d.ForecastText), d.ForecastText,
		)
	}
}
