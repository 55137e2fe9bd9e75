package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/glance/internal/filecache"
	"github.com/zjrosen/glance/internal/styles"
	"github.com/zjrosen/glance/internal/viewers"
)

var recentLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently viewed files",
	Long: `List the files glance mounted most recently, newest first, with the
viewer that showed them and how often they were opened.

History lives in the disk cache (cache.dir in the config).

Examples:
  glance recent
  glance recent -n 5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache := filecache.New(filecache.Config{
			Dir:       cfg.Cache.Dir,
			TTL:       cfg.Cache.TTL,
			Retention: cfg.Cache.Retention,
		})
		defer func() { _ = cache.Close() }()

		ctx := cmd.Context()
		if err := cache.Init(ctx); err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		entries, err := cache.Recent(ctx, recentLimit)
		if errors.Is(err, filecache.ErrNoDisk) {
			return fmt.Errorf("%w: set cache.dir in your config", err)
		}
		if err != nil {
			return err
		}
		return writeRecent(cmd.OutOrStdout(), entries, time.Now(), printWidth(0))
	},
}

func init() {
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 20, "Maximum number of files to list")
	rootCmd.AddCommand(recentCmd)
}

func writeRecent(w io.Writer, entries []filecache.Entry, now time.Time, width int) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, styles.MutedStyle.Render("No files viewed yet."))
		return err
	}

	rows := [][]string{{"File", "Viewer", "Views", "Size", "Last viewed"}}
	for _, e := range entries {
		rows = append(rows, []string{
			e.Path,
			e.Handler,
			strconv.Itoa(e.Views),
			styles.HumanSize(e.Size),
			ago(now.Sub(e.LastViewed)),
		})
	}
	_, err := fmt.Fprintln(w, viewers.RenderTable(rows, width))
	return err
}

// ago formats d coarsely: "just now", "5m ago", "3h ago", "2d ago".
func ago(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
