package report

import (
	"fmt"
	"strings"

	"github.com/nao1215/webrecon/internal/model"
)

// TreeNode is a crawled page and the pages first discovered from it.
type TreeNode struct {
	Row      model.Row
	Children []*TreeNode
}

// BuildCrawlTree arranges crawl rows by their parent URL. Rows whose parent
// was not emitted become roots. Children keep emission order.
func BuildCrawlTree(rows []model.Row) []*TreeNode {
	byURL := make(map[string]*TreeNode, len(rows))
	nodes := make([]*TreeNode, len(rows))
	for i, row := range rows {
		nodes[i] = &TreeNode{Row: row}
		if _, seen := byURL[row.URL]; !seen {
			byURL[row.URL] = nodes[i]
		}
	}

	var roots []*TreeNode
	for _, n := range nodes {
		parent, ok := byURL[n.Row.ParentOrEmpty()]
		if n.Row.ParentURL == nil || !ok || parent == n {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}
	return roots
}

// RenderTree draws the tree with box-drawing connectors, one page per line.
func RenderTree(roots []*TreeNode) string {
	var sb strings.Builder
	for _, root := range roots {
		sb.WriteString(treeLabel(root.Row))
		sb.WriteByte('\n')
		renderChildren(&sb, root.Children, "")
	}
	return sb.String()
}

func renderChildren(sb *strings.Builder, children []*TreeNode, prefix string) {
	for i, child := range children {
		connector, next := "├── ", "│   "
		if i == len(children)-1 {
			connector, next = "└── ", "    "
		}
		sb.WriteString(prefix + connector + treeLabel(child.Row))
		sb.WriteByte('\n')
		renderChildren(sb, child.Children, prefix+next)
	}
}

func treeLabel(row model.Row) string {
	if row.Error {
		return fmt.Sprintf("%s [error: %s]", row.URL, row.ErrorMessage)
	}
	if row.Title != "" {
		return fmt.Sprintf("%s [%d] %s", row.URL, row.Status, row.Title)
	}
	return fmt.Sprintf("%s [%d]", row.URL, row.Status)
}
