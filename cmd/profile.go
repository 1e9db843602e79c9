package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yufin/yufin/internal/rewards"
	"github.com/yufin/yufin/internal/store"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the learner's coins, level, achievements and history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		prof, err := rewards.NewService(st, log).Profile(ctx, cfg.UserID)
		if errors.Is(err, store.ErrNotFound) {
			fmt.Printf("No progress recorded for %s yet.\n", cfg.UserID)
			return nil
		}
		if err != nil {
			return err
		}

		u := prof.User
		fmt.Printf("%s (%s)\n", u.Name, u.ID)
		fmt.Printf("Coins:   %d\n", u.Coins)
		fmt.Printf("Level:   %d  (%d/%d XP to next)\n", u.Level, u.XP%rewards.XPPerLevel, rewards.XPPerLevel)
		fmt.Printf("Lessons: %d completed\n", len(prof.CompletedLessons))

		fmt.Println()
		fmt.Println("Achievements")
		fmt.Println(strings.Repeat("─", 60))
		earned := make(map[string]bool, len(prof.Achievements))
		for _, a := range prof.Achievements {
			earned[a.ID] = true
		}
		for _, a := range rewards.Catalog() {
			mark := "  "
			if earned[a.ID] {
				mark = "✓ "
			}
			fmt.Printf("%s%s %-16s %-10s %s\n", mark, a.Rarity.Icon(), a.Name, a.Rarity.DisplayName(), a.Description)
		}

		completions, err := st.Completions(ctx, cfg.UserID)
		if err != nil {
			return fmt.Errorf("list completions: %w", err)
		}
		if len(completions) == 0 {
			return nil
		}
		fmt.Println()
		fmt.Println("History")
		fmt.Println(strings.Repeat("─", 60))
		for _, c := range completions {
			perfect := ""
			if c.IsPerfect {
				perfect = "★"
			}
			fmt.Printf("%-19s  %-24s  %3d %-1s  +%d\n",
				c.CompletedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(c.LessonID, 24), c.Score, perfect, c.Reward)
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase the learner's progress from the local database",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if !yes {
			return fmt.Errorf("this erases all progress for %s; rerun with --yes", cfg.UserID)
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ResetUser(cmd.Context(), cfg.UserID); err != nil {
			return fmt.Errorf("reset %s: %w", cfg.UserID, err)
		}
		fmt.Println("Progress erased for", cfg.UserID)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
