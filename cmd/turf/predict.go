package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/yourusername/turf-analytics/internal/models"
	"github.com/yourusername/turf-analytics/internal/service"
)

func newPredictCmd() *cobra.Command {
	var (
		profileName string
		top         int
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "predict <race-id>",
		Short: "Score one race and recommend tickets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raceID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid race id %q: %w", args[0], err)
			}

			return withApp(cmd.Context(), func(a *app) error {
				p, err := a.predictions.PredictRace(cmd.Context(), raceID, profileName)
				if err != nil {
					return err
				}
				if asJSON {
					return writePredictionsJSON(cmd, []*service.Prediction{p})
				}
				printPrediction(cmd.OutOrStdout(), p, top)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "", "Weighting profile name (default: resolved from the race)")
	cmd.Flags().IntVar(&top, "top", 0, "Only show the leading runners")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the scored field as JSON")
	return cmd
}

func newPredictDayCmd() *cobra.Command {
	var (
		date   string
		top    int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "predict-day",
		Short: "Score every race of a day, most confident first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseDay(date, time.Now())
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), func(a *app) error {
				predictions, err := a.predictions.PredictDay(cmd.Context(), day)
				ranked := service.RankByConfidence(predictions)
				if asJSON {
					if jsonErr := writePredictionsJSON(cmd, ranked); jsonErr != nil {
						return jsonErr
					}
				} else {
					for _, p := range ranked {
						printPrediction(cmd.OutOrStdout(), p, top)
					}
				}
				return err
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Race day as YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&top, "top", 5, "Leading runners shown per race (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the scored fields as JSON")
	return cmd
}

type predictionJSON struct {
	Race            *models.Race              `json:"race"`
	Profile         string                    `json:"profile"`
	ProfileVersion  int                       `json:"profile_version"`
	Field           *models.ScoredField       `json:"field"`
	Recommendations *models.RecommendationSet `json:"recommendations"`
}

func writePredictionsJSON(cmd *cobra.Command, predictions []*service.Prediction) error {
	out := make([]predictionJSON, 0, len(predictions))
	for _, p := range predictions {
		out = append(out, predictionJSON{
			Race:            p.Race,
			Profile:         p.Profile.Name,
			ProfileVersion:  p.Profile.Version,
			Field:           p.Field,
			Recommendations: p.Recommendations,
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
