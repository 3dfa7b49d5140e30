// Command academyctl is the Academy Tournament Recommender operator CLI.
//
// Usage:
//
//	academyctl parse "U16 clay tournaments next month in Barcelona"
//	academyctl recommend --player <id> --query "national events in May" --max 5
//	academyctl score --player <id> --tournament <id>
//	academyctl score --file request.json
//	academyctl demo
//	academyctl purge --keep 30
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"cloud.google.com/go/civil"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/courtside/academy-recommender/internal/api/handler"
	"github.com/courtside/academy-recommender/internal/app"
	"github.com/courtside/academy-recommender/internal/config"
	"github.com/courtside/academy-recommender/internal/maintenance"
	"github.com/courtside/academy-recommender/internal/model"
	"github.com/courtside/academy-recommender/internal/recommend"
	"github.com/courtside/academy-recommender/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "academyctl",
		Short:        "Academy tournament recommender CLI",
		SilenceUsage: true,
	}

	root.AddCommand(parseCmd())
	root.AddCommand(recommendCmd())
	root.AddCommand(scoreCmd())
	root.AddCommand(demoCmd())
	root.AddCommand(purgeCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// parse command
// --------------------------------------------------------------------------

func parseCmd() *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "parse <query>",
		Short: "Show the filter extracted from a free-text query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				refDate, err := dateFlag(ref, a.Config)
				if err != nil {
					return err
				}
				filter := a.Parser.Parse(args[0], refDate)
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"query":          args[0],
					"reference_date": refDate,
					"filter":         filter,
				})
			})
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "Reference date YYYY-MM-DD (default today)")
	return cmd
}

// --------------------------------------------------------------------------
// recommend command
// --------------------------------------------------------------------------

func recommendCmd() *cobra.Command {
	var (
		playerID   string
		q          string
		asOf       string
		maxResults int
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank tournaments for a player",
		RunE: func(cmd *cobra.Command, args []string) error {
			if playerID == "" {
				return fmt.Errorf("--player is required")
			}
			return withApp(func(ctx context.Context, a *app.App) error {
				date, err := dateFlag(asOf, a.Config)
				if err != nil {
					return err
				}
				start := time.Now()
				result, err := a.Engine.Recommend(ctx, recommend.Request{
					PlayerID:   playerID,
					Filter:     a.Parser.Parse(q, date),
					MaxResults: maxResults,
					AsOf:       date,
				})
				if err != nil {
					return err
				}
				logger.Info("Recommend finished",
					"duration", time.Since(start).Round(time.Millisecond),
					"summary", result.Summary())
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), result)
				}
				return writeRecommendations(cmd.OutOrStdout(), result)
			})
		},
	}
	cmd.Flags().StringVar(&playerID, "player", "", "Player ID")
	cmd.Flags().StringVar(&q, "query", "", "Free-text query")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Evaluation date YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&maxResults, "max", 0, "Maximum results (0 = configured default)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	return cmd
}

func writeRecommendations(w io.Writer, result *recommend.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tSTART\tTOURNAMENT\tLOCATION")
	for i, rec := range result.Recommendations {
		fmt.Fprintf(tw, "%d\t%.2f\t%s\t%s\t%s\n",
			i+1, rec.Breakdown.Total, rec.Tournament.StartDate,
			rec.Tournament.Name, rec.Tournament.Location)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, s := range result.Skipped {
		fmt.Fprintf(w, "skipped %s: %s\n", s.TournamentID, s.Reason)
	}
	_, err := fmt.Fprintln(w, result.Summary())
	return err
}

// --------------------------------------------------------------------------
// score command
// --------------------------------------------------------------------------

func scoreCmd() *cobra.Command {
	var file, playerID, tournamentID, asOf string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one tournament for one player",
		Long: "Scores a stored player against a stored tournament (--player, --tournament),\n" +
			"or an inline request with the same body as POST /score (--file).",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				req     handler.ScoreRequest
				fromDoc = file != ""
			)
			if fromDoc {
				if err := readScoreRequest(cmd, file, &req); err != nil {
					return err
				}
			} else if playerID == "" || tournamentID == "" {
				return fmt.Errorf("either --file or both --player and --tournament are required")
			}

			return withApp(func(ctx context.Context, a *app.App) error {
				if !fromDoc {
					if err := loadScoreRequest(ctx, a, playerID, tournamentID, &req); err != nil {
						return err
					}
				}
				date := a.Config.Today()
				if req.AsOf != nil {
					date = *req.AsOf
				}
				if asOf != "" {
					d, err := dateFlag(asOf, a.Config)
					if err != nil {
						return err
					}
					date = d
				}
				breakdown, err := a.Engine.Scorer().Score(req.Player, req.Tournament, req.Availability, date)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), breakdown)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Request file (- for stdin)")
	cmd.Flags().StringVar(&playerID, "player", "", "Player ID")
	cmd.Flags().StringVar(&tournamentID, "tournament", "", "Tournament ID")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Evaluation date YYYY-MM-DD (default today)")
	return cmd
}

func readScoreRequest(cmd *cobra.Command, file string, req *handler.ScoreRequest) error {
	var in io.Reader = cmd.InOrStdin()
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("open request: %w", err)
		}
		defer f.Close()
		in = f
	}
	dec := json.NewDecoder(in)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func loadScoreRequest(ctx context.Context, a *app.App, playerID, tournamentID string, req *handler.ScoreRequest) error {
	player, err := a.Store.GetPlayerProfile(ctx, playerID)
	if err != nil {
		return fmt.Errorf("load player: %w", err)
	}
	tournament, err := a.Store.GetTournament(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("load tournament: %w", err)
	}
	avail, err := a.Store.GetAvailability(ctx, playerID)
	if err != nil {
		return fmt.Errorf("load availability: %w", err)
	}
	req.Player, req.Tournament, req.Availability = player, tournament, avail
	return nil
}

// --------------------------------------------------------------------------
// demo command
// --------------------------------------------------------------------------

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "List the guest-mode demo players and tournaments",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			mem := store.NewMemory()
			store.SeedDemo(mem, cfg.Today())

			players, err := mem.ListPlayers(ctx)
			if err != nil {
				return err
			}
			tournaments, err := mem.QueryTournaments(ctx, model.QueryFilter{})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PLAYER\tCATEGORY\tRATING\tHOME\tID")
			for _, p := range players {
				fmt.Fprintf(tw, "%s\t%s\t%.1f\t%s\t%s\n", p.Name, p.Category, p.Rating, p.HomeLocation, p.ID)
			}
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "TOURNAMENT\tTYPE\tSTART\tLOCATION\tID")
			for _, t := range tournaments {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.Name, t.Type, t.StartDate, t.Location, t.ID)
			}
			return tw.Flush()
		},
	}
}

// --------------------------------------------------------------------------
// purge command
// --------------------------------------------------------------------------

func purgeCmd() *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete availability blocks that ended more than --keep days ago",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				purger, ok := a.Store.(maintenance.AvailabilityPurger)
				if !ok {
					return fmt.Errorf("purge requires STORE_BACKEND=postgres")
				}
				n := maintenance.PurgeAvailability(ctx, purger, a.Config.Today(), keep, logger)
				fmt.Fprintf(cmd.OutOrStdout(), "purged %d availability rows\n", n)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&keep, "keep", maintenance.DefaultConfig().AvailabilityKeep, "Days of past availability to keep")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// withApp handles config loading, backend wiring, and context cancellation.
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func dateFlag(v string, cfg *config.Config) (civil.Date, error) {
	if v == "" {
		return cfg.Today(), nil
	}
	d, err := civil.ParseDate(v)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", v)
	}
	return d, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
