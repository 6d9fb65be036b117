package md

import (
	"github.com/k1LoW/podium"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// tableContent converts an east.Table into a table content of
// plain-text cells. The header row comes first.
func tableContent(tableNode *east.Table, b []byte) *podium.Content {
	c := &podium.Content{
		Kind: podium.ContentTable,
	}
	for child := tableNode.FirstChild(); child != nil; child = child.NextSibling() {
		switch v := child.(type) {
		case *east.TableHeader:
			c.Rows = append(c.Rows, tableRow(v, b))
		case *east.TableRow:
			c.Rows = append(c.Rows, tableRow(v, b))
		}
	}
	return c
}

// tableRow extracts the plain-text cells of a header or body row.
func tableRow(rowNode ast.Node, b []byte) []string {
	var row []string
	for child := rowNode.FirstChild(); child != nil; child = child.NextSibling() {
		if cellNode, ok := child.(*east.TableCell); ok {
			row = append(row, nodeText(cellNode, b))
		}
	}
	return row
}
