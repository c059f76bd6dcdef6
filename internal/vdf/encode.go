package vdf

import "strings"

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)

// Encode writes n in the document grammar: every key and scalar quoted, one
// pair per line, nested maps tab-indented. Encoding a root map writes its
// children at the top level, so Parse(Encode(root)) rebuilds root.
func Encode(n *Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	if n.IsScalar() {
		b.WriteString(quote(n.value))
		b.WriteByte('\n')
		return b.String()
	}
	writeMap(&b, n, 0)
	return b.String()
}

func writeMap(b *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("\t", depth)
	for _, key := range n.keys {
		child := n.children[key]
		b.WriteString(indent)
		b.WriteString(quote(key))
		if child.IsMap() {
			b.WriteByte('\n')
			b.WriteString(indent)
			b.WriteString("{\n")
			writeMap(b, child, depth+1)
			b.WriteString(indent)
			b.WriteString("}\n")
			continue
		}
		b.WriteString("\t\t")
		b.WriteString(quote(child.value))
		b.WriteByte('\n')
	}
}

func quote(s string) string {
	return `"` + quoteEscaper.Replace(s) + `"`
}
