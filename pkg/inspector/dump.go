package inspector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table renders s as a table with one row per fiber, indented by depth.
func Table(s *Snapshot) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	if s != nil {
		tbl.SetTitle(fmt.Sprintf("commit #%d (%d fibers)", s.Sequence, s.Fibers))
	}
	tbl.AppendHeader(table.Row{"fiber", "id", "kind", "effect", "props"})

	s.Walk(func(n *Node, depth int) {
		tbl.AppendRow(table.Row{
			strings.Repeat("  ", depth) + label(n),
			n.ID,
			n.Kind,
			n.Effect,
			formatProps(n.Props),
		})
	})
	return tbl.Render()
}

func label(n *Node) string {
	if n.Text != "" || n.Type == "#text" {
		return fmt.Sprintf("%q", n.Text)
	}
	return n.Type
}

func formatProps(props map[string]string) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+props[k])
	}
	return strings.Join(parts, " ")
}
