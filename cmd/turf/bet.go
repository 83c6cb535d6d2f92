package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/yourusername/turf-analytics/internal/ledger"
	"github.com/yourusername/turf-analytics/internal/models"
	"github.com/yourusername/turf-analytics/internal/repository"
)

func newBetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bet",
		Short: "Record placed bets and follow the return on investment",
	}
	cmd.AddCommand(newBetRecordCmd(), newBetSettleCmd(), newBetStatsCmd(), newBetListCmd(), newBetPurgeCmd())
	return cmd
}

func newBetRecordCmd() *cobra.Command {
	var (
		raceID    string
		betType   string
		selection string
		stake     string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a placed bet as pending",
		Example: `  turf bet record --race-id 6f1c... --type pair_place --selection 3,7 --stake 2.50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(raceID)
			if err != nil {
				return fmt.Errorf("invalid race id %q: %w", raceID, err)
			}
			numbers, err := parseSelection(selection)
			if err != nil {
				return err
			}
			amount, err := decimal.NewFromString(stake)
			if err != nil {
				return fmt.Errorf("invalid stake %q: %w", stake, err)
			}

			return withApp(cmd.Context(), func(a *app) error {
				race, err := a.repos.Race.GetByID(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("failed to load race %s: %w", id, err)
				}

				betID, err := a.ledger.Record(cmd.Context(), ledger.RecordRequest{
					RaceID:    race.ID,
					RaceRef:   race.Reference(),
					BetType:   models.BetType(strings.ToLower(betType)),
					Selection: numbers,
					Stake:     amount,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded bet %s on %s\n", betID, race.Reference())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&raceID, "race-id", "", "Race id")
	cmd.Flags().StringVar(&betType, "type", "", "Bet type (single_win, single_place, pair_win, pair_place, triple, block_pair)")
	cmd.Flags().StringVar(&selection, "selection", "", "Program numbers, comma separated")
	cmd.Flags().StringVar(&stake, "stake", "", "Stake in euros")
	for _, name := range []string{"race-id", "type", "selection", "stake"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newBetSettleCmd() *cobra.Command {
	var (
		outcome string
		payout  string
	)

	cmd := &cobra.Command{
		Use:   "settle <bet-id>",
		Short: "Settle a pending bet with its outcome and payout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid bet id %q: %w", args[0], err)
			}
			amount := decimal.Zero
			if payout != "" {
				if amount, err = decimal.NewFromString(payout); err != nil {
					return fmt.Errorf("invalid payout %q: %w", payout, err)
				}
			}

			return withApp(cmd.Context(), func(a *app) error {
				if err := a.ledger.Settle(cmd.Context(), id, models.Outcome(strings.ToLower(outcome)), amount); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Settled bet %s as %s (%s)\n", id, outcome, formatMoney(amount))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&outcome, "outcome", "", "Outcome (won or lost)")
	cmd.Flags().StringVar(&payout, "payout", "", "Amount returned in euros (default: 0)")
	_ = cmd.MarkFlagRequired("outcome")
	return cmd
}

func newBetStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show stake, payout, ROI and hit rate over every bet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				stats, err := a.ledger.Statistics(cmd.Context())
				if err != nil {
					return err
				}
				printStatistics(cmd.OutOrStdout(), stats)
				return nil
			})
		},
	}
}

func newBetListCmd() *cobra.Command {
	var (
		status string
		raceID string
		since  string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List placed bets, most recent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := repository.BetFilter{Limit: limit}
			if status != "" {
				s := models.BetStatus(strings.ToLower(status))
				if s != models.BetStatusPending && s != models.BetStatusSettled {
					return fmt.Errorf("unknown status %q", status)
				}
				filter.Status = &s
			}
			if raceID != "" {
				id, err := uuid.Parse(raceID)
				if err != nil {
					return fmt.Errorf("invalid race id %q: %w", raceID, err)
				}
				filter.RaceID = &id
			}
			if since != "" {
				d, err := time.Parse(dateLayout, since)
				if err != nil {
					return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", since)
				}
				filter.Since = &d
			}

			return withApp(cmd.Context(), func(a *app) error {
				bets, err := a.ledger.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				printBets(cmd.OutOrStdout(), bets)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only pending or settled bets")
	cmd.Flags().StringVar(&raceID, "race-id", "", "Only bets on this race")
	cmd.Flags().StringVar(&since, "since", "", "Only bets placed on or after YYYY-MM-DD")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of bets (0 for all)")
	return cmd
}

func newBetPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge <bet-id>",
		Short: "Delete a bet from the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid bet id %q: %w", args[0], err)
			}
			return withApp(cmd.Context(), func(a *app) error {
				if err := a.ledger.Purge(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Purged bet %s\n", id)
				return nil
			})
		},
	}
}
