package main

import (
	"fmt"

	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/seed"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill an empty database with a demo user, posts and comments",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := db.Init(cfg.DatabasePath); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	summary, err := seed.Run(db.DB)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if summary.Skipped {
		fmt.Fprintln(out, "posts already exist, nothing to do")
		return nil
	}
	fmt.Fprintf(out, "demo data ready: %d posts, %d drafts, %d comments\n", summary.Posts, summary.Drafts, summary.Comments)
	fmt.Fprintf(out, "user: %s (password: %s)\n", seed.DefaultUsername, seed.DefaultPassword)
	return nil
}
