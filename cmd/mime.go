package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/glance/internal/config"
	"github.com/zjrosen/glance/internal/viewer"
	"github.com/zjrosen/glance/internal/viewers"
)

var mimeOptions []string

var mimeSetCmd = &cobra.Command{
	Use:   "mime:set <type> <handler>",
	Short: "Map a file name or extension to a viewer",
	Long: `Add or replace an entry in the mime table of the config file.

The type is a lower-case file name or an extension without the dot. Options
are passed through to the viewer; values are read as YAML scalars.

Examples:
  glance mime:set makefile editor
  glance mime:set csv table --opt max_rows=50
  glance mime:set psv table --opt delimiter='|'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := parseOptions(mimeOptions)
		if err != nil {
			return err
		}
		handler := viewer.HandlerID(args[1])
		if !handler.Known() {
			cmd.PrintErrf("warning: %q is not a known viewer; files of this type will show an error\n", handler)
		}

		path := configFilePath()
		if err := config.SaveMimeEntry(path, args[0], viewer.Opener{Handler: handler, Options: opts}); err != nil {
			return err
		}
		cmd.Printf("%s -> %s (%s)\n", args[0], handler, path)
		return nil
	},
}

var mimeUnsetCmd = &cobra.Command{
	Use:   "mime:unset <type>",
	Short: "Remove a mime table entry from the config file",
	Long: `Remove an entry from the mime table of the config file. Built-in
entries come back once the override is gone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFilePath()
		if err := config.DeleteMimeEntry(path, args[0]); err != nil {
			return err
		}
		cmd.Printf("removed %s (%s)\n", args[0], path)
		return nil
	},
}

var mimeListCmd = &cobra.Command{
	Use:   "mime:list",
	Short: "Show the effective mime table",
	Long: `Show the mime table in effect: the built-in entries with the config
file entries merged on top.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeMimeTable(cmd.OutOrStdout(), cfg.TypeTable(), printWidth(0))
	},
}

func init() {
	mimeSetCmd.Flags().StringArrayVarP(&mimeOptions, "opt", "o", nil, "Viewer option as key=value (can be repeated)")
	rootCmd.AddCommand(mimeSetCmd, mimeUnsetCmd, mimeListCmd)
}

// parseOptions turns key=value pairs into viewer options. Values decode as
// YAML scalars, so "50" is an int and "true" a bool.
func parseOptions(pairs []string) (viewer.Options, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	opts := viewer.Options{}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("option %q: want key=value", pair)
		}
		var val any
		if err := yaml.Unmarshal([]byte(v), &val); err != nil || val == nil {
			val = v
		}
		if _, isString := val.(string); isString {
			val = v
		}
		opts[k] = val
	}
	return opts, nil
}

func writeMimeTable(w io.Writer, table viewer.TypeTable, width int) error {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	rows := [][]string{{"Type", "Viewer", "Options"}}
	for _, k := range keys {
		opener := table[k]
		rows = append(rows, []string{k, string(opener.Handler), formatOptions(opener.Options)})
	}
	_, err := fmt.Fprintln(w, viewers.RenderTable(rows, width))
	return err
}

func formatOptions(opts viewer.Options) string {
	if len(opts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, fmt.Sprint(opts[k])))
	}
	return strings.Join(parts, " ")
}
