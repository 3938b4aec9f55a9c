package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/talekeeper/chronicle/internal/event"
	"github.com/talekeeper/chronicle/internal/forecast"
	"github.com/talekeeper/chronicle/internal/platform/id"
	"github.com/talekeeper/chronicle/internal/projection"
)

var (
	forecastConversation string
	forecastForce        bool
)

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Generate a weather forecast for the current area if coverage is running out",
		Args:  cobra.NoArgs,
		RunE:  runForecast,
	}
	cmd.Flags().StringVar(&forecastConversation, "conversation", "", "Conversation id")
	cmd.Flags().BoolVar(&forecastForce, "force", false, "Generate even when the stored forecast is still fresh")
	return cmd
}

func runForecast(cmd *cobra.Command, args []string) error {
	if forecastConversation == "" {
		return fmt.Errorf("--conversation is required")
	}
	ctx := context.Background()

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	events, err := store.ListActiveEvents(ctx, forecastConversation, 0)
	if err != nil {
		return err
	}
	snapshot := projection.Project(events)
	if !snapshot.Time.Known {
		return fmt.Errorf("narrative time is not anchored yet; ingest a time event first")
	}
	area := snapshot.Location.Area
	if area == "" {
		return fmt.Errorf("no current area; ingest a location event first")
	}

	if !forecastForce && !forecast.NeedsNew(snapshot.Forecasts, area, snapshot.Time.Moment) {
		remaining := snapshot.Forecasts[area].DaysRemaining(snapshot.Time.Moment)
		cmd.Printf("forecast for %s still covers %d days, nothing to do\n", area, remaining)
		return nil
	}

	table := forecast.Generate(area, snapshot.Time.Moment)
	payload, err := json.Marshal(forecastPayload(table))
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	eventID, err := id.NewID()
	if err != nil {
		return fmt.Errorf("generate event id: %w", err)
	}
	messageIndex := 0
	if len(events) > 0 {
		messageIndex = events[len(events)-1].Source.MessageIndex
	}
	appended, err := store.AppendEvent(ctx, event.Event{
		ID:             eventID,
		ConversationID: forecastConversation,
		Source:         event.Source{MessageIndex: messageIndex},
		Kind:           event.KindForecastGenerated,
		Subkind:        event.SubkindNone,
		PayloadJSON:    payload,
	})
	if err != nil {
		return err
	}
	cmd.Printf("forecast for %s from %s recorded (seq=%d)\n",
		area, table.StartDate.Format("2006-01-02"), appended.Seq)
	return nil
}

// forecastPayload flattens a forecast table into its event payload form.
func forecastPayload(table forecast.LocationForecast) event.ForecastGeneratedPayload {
	payload := event.ForecastGeneratedPayload{
		Area:      table.Area,
		StartDate: table.StartDate.Format(time.RFC3339),
	}
	for d := 0; d < forecast.Days; d++ {
		day := event.ForecastDayPayload{}
		for h := 0; h < forecast.HoursPerDay; h++ {
			sample := table.Days[d].Hours[h]
			day.Hours = append(day.Hours, event.ForecastSamplePayload{
				Condition:    sample.Condition,
				TemperatureC: sample.TemperatureC,
				WindKPH:      sample.WindKPH,
				Humidity:     sample.Humidity,
			})
		}
		payload.Days = append(payload.Days, day)
	}
	return payload
}
