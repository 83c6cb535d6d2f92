package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yourusername/turf-analytics/internal/models"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage weighting profiles",
	}
	cmd.AddCommand(newProfileListCmd(), newProfileShowCmd(), newProfileSaveCmd(), newProfileGenerateCmd())
	return cmd
}

func newProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the latest version of every profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				profiles, err := a.profiles.List(cmd.Context())
				if err != nil {
					return err
				}
				printProfiles(cmd.OutOrStdout(), profiles)
				return nil
			})
		},
	}
}

func newProfileShowCmd() *cobra.Command {
	var version int

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one profile version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				p, err := a.profiles.Get(cmd.Context(), args[0], version)
				if err != nil {
					return err
				}
				printProfiles(cmd.OutOrStdout(), []*models.WeightingProfile{p})
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&version, "version", 0, "Profile version (default: latest)")
	return cmd
}

// predicateFlags holds the applicability flags shared by save and generate
type predicateFlags struct {
	venue      string
	discipline string
	band       string
}

func (f *predicateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.venue, "venue", "", "Venue the profile applies to")
	cmd.Flags().StringVar(&f.discipline, "discipline", "", "Discipline code (A, M, P, H)")
	cmd.Flags().StringVar(&f.band, "band", "", "Field size band (0-8, 8-10, 10-12, 12-14, 14-16, 16+)")
}

func (f *predicateFlags) parse() (string, models.Discipline, models.FieldBand, error) {
	var discipline models.Discipline
	if f.discipline != "" {
		discipline = models.ParseDiscipline(f.discipline)
		if discipline == "" {
			return "", "", "", fmt.Errorf("unknown discipline %q", f.discipline)
		}
	}

	band := models.FieldBand(f.band)
	if band != "" && !band.IsValid() {
		return "", "", "", fmt.Errorf("unknown field band %q", f.band)
	}

	return strings.ToUpper(strings.TrimSpace(f.venue)), discipline, band, nil
}

func newProfileSaveCmd() *cobra.Command {
	var (
		name       string
		weights    []string
		predicates predicateFlags
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a hand-tuned profile as a new version",
		Example: `  turf profile save --name vincennes_sprint --venue VINCENNES --discipline A \
    --weight ai_win=30 --weight elo_horse=20 --weight odds_bzh=15`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := parseWeights(weights)
			if err != nil {
				return err
			}
			venue, discipline, band, err := predicates.parse()
			if err != nil {
				return err
			}

			p := models.NewWeightingProfile(name, parsed).
				WithPredicates(venue, discipline, band).
				WithSource(models.ProfileSourceUser)

			return withApp(cmd.Context(), func(a *app) error {
				saved, err := a.profiles.Save(cmd.Context(), p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s version %d\n", saved.Name, saved.Version)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Profile name")
	cmd.Flags().StringArrayVar(&weights, "weight", nil, "Criterion weight as criterion=value (repeatable)")
	predicates.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("weight")
	return cmd
}

func newProfileGenerateCmd() *cobra.Command {
	var (
		save       bool
		predicates predicateFlags
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fit a profile on the finished races of a venue, discipline and band",
		RunE: func(cmd *cobra.Command, _ []string) error {
			venue, discipline, band, err := predicates.parse()
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), func(a *app) error {
				p, fitted, err := a.profiles.Generate(cmd.Context(), venue, discipline, band, save)
				if err != nil {
					return err
				}
				if !fitted {
					fmt.Fprintln(cmd.OutOrStdout(), "Not enough finished races, showing the default weights")
				}
				printProfiles(cmd.OutOrStdout(), []*models.WeightingProfile{p})
				if fitted && save {
					fmt.Fprintf(cmd.OutOrStdout(), "Saved %s version %d\n", p.Name, p.Version)
				}
				return nil
			})
		},
	}

	predicates.register(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "Store the fitted profile as a new version")
	return cmd
}
