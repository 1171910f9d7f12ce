// Command admin runs maintenance tasks against the LinkSphere database:
// schema migrations, demo seeding and counter verification.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"linksphere/internal/config"
	"linksphere/internal/database"
	"linksphere/internal/models"
	"linksphere/internal/repository"
	"linksphere/internal/seed"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd(openDB).Execute(); err != nil {
		os.Exit(1)
	}
}

// dbOpener connects to the configured database. Tests replace it.
type dbOpener func() (*gorm.DB, error)

func openDB() (*gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

func newRootCmd(open dbOpener) *cobra.Command {
	root := &cobra.Command{
		Use:          "admin",
		Short:        "LinkSphere maintenance commands",
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd(open))
	root.AddCommand(newSeedCmd(open))
	root.AddCommand(newVerifyCountersCmd(open))
	return root
}

func newMigrateCmd(open dbOpener) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage SQL schema migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: withDB(open, func(cmd *cobra.Command, _ []string, db *gorm.DB) error {
			if err := database.RunMigrations(db); err != nil {
				return err
			}
			return printStatus(cmd.OutOrStdout(), db)
		}),
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withDB(open, func(cmd *cobra.Command, args []string, db *gorm.DB) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid step count %q: %w", args[0], err)
				}
				steps = n
			}
			if err := database.RollbackMigrations(db, steps); err != nil {
				return err
			}
			return printStatus(cmd.OutOrStdout(), db)
		}),
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the applied migration version",
		RunE: withDB(open, func(cmd *cobra.Command, _ []string, db *gorm.DB) error {
			return printStatus(cmd.OutOrStdout(), db)
		}),
	})

	return migrateCmd
}

func newSeedCmd(open dbOpener) *cobra.Command {
	opts := seed.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with demo data",
		RunE: withDB(open, func(cmd *cobra.Command, _ []string, db *gorm.DB) error {
			res, err := seed.Seed(cmd.Context(), db, opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"seeded %d users, %d posts, %d connections, %d likes, %d saves, %d comments\n",
				res.Users, res.Posts, res.Connections, res.Likes, res.Saves, res.Comments)
			return err
		}),
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.NumUsers, "users", "u", opts.NumUsers, "Number of users to create")
	flags.IntVarP(&opts.PostsPerUser, "posts", "p", opts.PostsPerUser, "Posts per user")
	flags.IntVar(&opts.ConnectionsPerUser, "connections", opts.ConnectionsPerUser, "Connections started by each user")
	flags.IntVar(&opts.EngagementPercent, "engagement", opts.EngagementPercent, "Chance (0-100) that a user likes a post")
	flags.IntVar(&opts.CommentsPerPost, "comments", opts.CommentsPerPost, "Comments per post")
	flags.BoolVar(&opts.SkipBcrypt, "skip-bcrypt", opts.SkipBcrypt, "Store the demo password unhashed")
	flags.Int64Var(&opts.RandomSeed, "seed", opts.RandomSeed, "Random seed (0 picks one)")
	return cmd
}

func newVerifyCountersCmd(open dbOpener) *cobra.Command {
	var repair bool

	cmd := &cobra.Command{
		Use:   "verify-counters",
		Short: "Compare post counters with their ledgers",
		Long: "Compares likes_count, saves_count and comments_count with the rows that back them.\n" +
			"Exits non-zero when drift is found unless --repair is given.",
		RunE: withDB(open, func(cmd *cobra.Command, _ []string, db *gorm.DB) error {
			audit := repository.NewCounterAudit(db)
			ctx := cmd.Context()

			var (
				drift []models.CounterDrift
				err   error
			)
			if repair {
				drift, err = audit.Repair(ctx)
			} else {
				drift, err = audit.Check(ctx)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range drift {
				fmt.Fprintf(out, "post %d %s: stored %d, actual %d\n", d.PostID, d.Counter, d.Stored, d.Actual)
			}
			switch {
			case len(drift) == 0:
				fmt.Fprintln(out, "all counters match")
			case repair:
				fmt.Fprintf(out, "repaired %d counters\n", len(drift))
			default:
				return fmt.Errorf("%d counters drifted", len(drift))
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&repair, "repair", false, "Rewrite drifted counters from the ledgers")
	return cmd
}

// withDB opens the database for a command and closes it afterwards.
func withDB(open dbOpener, run func(*cobra.Command, []string, *gorm.DB) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if cmd.Context() == nil {
			cmd.SetContext(context.Background())
		}
		db, err := open()
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(db) }()
		return run(cmd, args, db)
	}
}

func printStatus(w io.Writer, db *gorm.DB) error {
	status, err := database.GetMigrationStatus(db)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "version %d of %d (dirty=%t, pending=%t)\n",
		status.Version, status.Latest, status.Dirty, status.Pending())
	return err
}
