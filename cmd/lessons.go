package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yufin/yufin/internal/authoring"
	"github.com/yufin/yufin/internal/content"
	"github.com/yufin/yufin/internal/store"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "Manage lessons in the local database",
}

var lessonsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := storeFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		all, err := st.Lessons(cmd.Context())
		if err != nil {
			return fmt.Errorf("list lessons: %w", err)
		}
		if len(all) == 0 {
			fmt.Println("No lessons stored. Import some with `yufin lessons import`.")
			return nil
		}

		fmt.Printf("%-28s  %-14s  %-20s  %5s  %s\n", "ID", "Type", "Shape", "Items", "Title")
		fmt.Println(strings.Repeat("─", 100))
		for _, l := range all {
			n := content.Normalize(l, 0)
			fmt.Printf("%-28s  %-14s  %-20s  %5d  %s\n",
				truncate(l.ID, 28), truncate(l.Type, 14), n.Shape(), n.Len(), l.Title)
		}
		return nil
	},
}

var lessonsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a lesson and its normalized first item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := storeFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		l, err := st.Lesson(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		n := content.Normalize(l, 0)

		fmt.Printf("ID:     %s\n", l.ID)
		fmt.Printf("Title:  %s\n", l.Title)
		fmt.Printf("Type:   %s (%s)\n", l.Type, l.LessonType().DisplayName())
		fmt.Printf("Shape:  %s\n", n.Shape())
		fmt.Printf("Items:  %d\n", n.Len())
		fmt.Printf("Ready:  %v\n", content.Available(n))

		sep := strings.Repeat("─", 60)
		fmt.Println()
		fmt.Println(sep)
		fmt.Println("NORMALIZED")
		fmt.Println(sep)
		out, err := json.MarshalIndent(n, "", "  ")
		if err != nil {
			return fmt.Errorf("render lesson: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

var lessonsImportCmd = &cobra.Command{
	Use:   "import <file.json>...",
	Short: "Import lessons from JSON files",
	Long:  "Each file holds one lesson object or an array of them. Lessons that cannot be played are skipped unless --force is set.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		st, err := storeFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		var imported, skipped int
		for _, path := range args {
			ls, err := readLessonFile(path)
			if err != nil {
				return err
			}
			for _, l := range ls {
				if l.ID == "" {
					fmt.Printf("✗ %s: lesson without id skipped\n", path)
					skipped++
					continue
				}
				n := content.Normalize(l, 0)
				if !content.Available(n) && !force {
					fmt.Printf("✗ %s: not playable (type %q, shape %s)\n", l.ID, l.Type, n.Shape())
					skipped++
					continue
				}
				if err := st.PutLesson(cmd.Context(), l); err != nil {
					return fmt.Errorf("store %s: %w", l.ID, err)
				}
				fmt.Printf("✓ %s  %s  %d items\n", l.ID, n.Shape(), n.Len())
				imported++
			}
		}
		fmt.Printf("\n%d imported, %d skipped\n", imported, skipped)
		return nil
	},
}

var lessonsCheckCmd = &cobra.Command{
	Use:   "check [file.json]...",
	Short: "Check lessons for layout and content problems",
	Long:  "Checks the given files, or every stored lesson when no file is given. Legacy layouts are reported but still play.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var ls []content.Lesson
		if len(args) == 0 {
			st, err := storeFromFlags(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			if ls, err = st.Lessons(cmd.Context()); err != nil {
				return fmt.Errorf("list lessons: %w", err)
			}
		}
		for _, path := range args {
			fromFile, err := readLessonFile(path)
			if err != nil {
				return err
			}
			ls = append(ls, fromFile...)
		}

		var unplayable int
		for _, l := range ls {
			n := content.Normalize(l, 0)
			if !content.Available(n) {
				unplayable++
				fmt.Printf("✗ %-28s  not playable (type %q, shape %s)\n", truncate(l.ID, 28), l.Type, n.Shape())
				continue
			}
			failed := authoring.Inspect(l, authoring.DefaultChecks())
			if len(failed) == 0 {
				fmt.Printf("✓ %-28s  %s\n", truncate(l.ID, 28), n.Shape())
				continue
			}
			fmt.Printf("! %-28s  %s\n", truncate(l.ID, 28), n.Shape())
			for _, f := range failed {
				fmt.Printf("    %s: %s\n", f.Check, f.Message)
			}
		}

		if unplayable > 0 {
			return fmt.Errorf("%d of %d lessons cannot be played", unplayable, len(ls))
		}
		return nil
	},
}

var lessonsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := storeFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteLesson(cmd.Context(), args[0]); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("lesson %s not found", args[0])
			}
			return err
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

// readLessonFile reads one lesson object or an array of lessons.
func readLessonFile(path string) ([]content.Lesson, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var ls []content.Lesson
		if err := json.Unmarshal(data, &ls); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return ls, nil
	}
	var l content.Lesson
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return []content.Lesson{l}, nil
}

func storeFromFlags(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openStore(cfg)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func init() {
	lessonsImportCmd.Flags().Bool("force", false, "Store lessons even if they cannot be played")

	lessonsCmd.AddCommand(lessonsListCmd)
	lessonsCmd.AddCommand(lessonsShowCmd)
	lessonsCmd.AddCommand(lessonsImportCmd)
	lessonsCmd.AddCommand(lessonsCheckCmd)
	lessonsCmd.AddCommand(lessonsDeleteCmd)
}
