package cmd

import (
	"encoding/json"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/zjrosen/glance/internal/viewer"
)

var handlersUsed bool

var handlersListCmd = &cobra.Command{
	Use:   "handlers:list",
	Short: "List viewer handlers as JSON",
	Long: `List every viewer handler and the file types mapped to it as JSON.

Use --used to drop handlers no file type maps to.

Examples:
  # List all handlers
  glance handlers:list

  # Only handlers with at least one type
  glance handlers:list --used

  # Parse specific fields with jq
  glance handlers:list | jq '.[].handler'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeHandlers(cmd.OutOrStdout(), cfg.TypeTable(), handlersUsed)
	},
}

func init() {
	handlersListCmd.Flags().BoolVarP(&handlersUsed, "used", "u", false, "Only list handlers that some file type maps to")
	rootCmd.AddCommand(handlersListCmd)
}

// handlerDTO is the JSON shape of one handler.
type handlerDTO struct {
	Handler string   `json:"handler"`
	Known   bool     `json:"known"`
	Types   []string `json:"types"`
}

// groupByHandler inverts table. Handlers from the closed set come first in
// their declared order, then unknown names from the table, sorted.
func groupByHandler(table viewer.TypeTable) []handlerDTO {
	types := make(map[viewer.HandlerID][]string)
	for key, opener := range table {
		types[opener.Handler] = append(types[opener.Handler], key)
	}

	out := make([]handlerDTO, 0, len(types))
	for _, id := range viewer.Handlers() {
		out = append(out, handlerDTO{Handler: string(id), Known: true, Types: sorted(types[id])})
		delete(types, id)
	}

	var unknown []string
	for id := range types {
		unknown = append(unknown, string(id))
	}
	slices.Sort(unknown)
	for _, id := range unknown {
		out = append(out, handlerDTO{Handler: id, Types: sorted(types[viewer.HandlerID(id)])})
	}
	return out
}

func sorted(s []string) []string {
	if s == nil {
		return []string{}
	}
	slices.Sort(s)
	return s
}

func writeHandlers(w io.Writer, table viewer.TypeTable, usedOnly bool) error {
	dtos := groupByHandler(table)
	if usedOnly {
		dtos = slices.DeleteFunc(dtos, func(d handlerDTO) bool { return len(d.Types) == 0 })
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dtos)
}
