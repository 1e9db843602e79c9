package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yufin/yufin/internal/authoring"
	"github.com/yufin/yufin/internal/content"
	"github.com/yufin/yufin/internal/llm"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft a new lesson with an LLM",
	Example: `  yufin draft --type choice --topic "guardar o troco"
  yufin draft --type shopping-cart --topic "feira da semana" --items 6 --save`,
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, _ := cmd.Flags().GetString("type")
		topic, _ := cmd.Flags().GetString("topic")
		items, _ := cmd.Flags().GetInt("items")
		id, _ := cmd.Flags().GetString("id")
		save, _ := cmd.Flags().GetBool("save")

		lt := content.ParseType(typ)
		if lt == content.TypeUnknown {
			return fmt.Errorf("unknown lesson type %q", typ)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		llmCfg := cfg.LLM
		if err := llmCfg.Validate(); err != nil {
			discovered, ok := llm.DiscoverConfig()
			if !ok {
				return fmt.Errorf("LLM provider not configured: %w", err)
			}
			llmCfg = discovered
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), llmCfg.Timeout)
		defer cancel()

		provider, err := llm.NewProvider(ctx, llmCfg, st, log)
		if err != nil {
			return err
		}

		svc := authoring.NewService(provider, authoring.DefaultConfig())
		draft, err := svc.Draft(ctx, authoring.Request{Type: lt, Topic: topic, Items: items, ID: id})
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(draft.Lesson, "", "  ")
		if err != nil {
			return fmt.Errorf("render draft: %w", err)
		}
		fmt.Println(string(out))
		fmt.Printf("\n%s  %s  %d items\n", draft.Lesson.ID, draft.Shape, draft.Items)

		if save {
			if err := st.PutLesson(cmd.Context(), draft.Lesson); err != nil {
				return fmt.Errorf("save draft: %w", err)
			}
			fmt.Println("Saved", draft.Lesson.ID)
		}
		return nil
	},
}

func init() {
	draftCmd.Flags().StringP("type", "t", "", "Lesson type: choice, match, math-problem, shopping-cart")
	draftCmd.Flags().String("topic", "", "What the lesson is about")
	draftCmd.Flags().IntP("items", "n", 0, "Number of questions, pairs, problems or products")
	draftCmd.Flags().String("id", "", "Lesson id (derived from the title when empty)")
	draftCmd.Flags().Bool("save", false, "Store the draft in the local database")
	_ = draftCmd.MarkFlagRequired("type")
	_ = draftCmd.MarkFlagRequired("topic")
}
