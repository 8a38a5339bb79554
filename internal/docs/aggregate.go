package docs

import (
	"sort"
	"strings"

	"github.com/julianshen/srcdocs/internal/template"
)

// Assemble turns rendered blocks into documents. Each destination's blocks
// are stably sorted by ascending order and concatenated; blocks with equal
// or incomparable (NaN) orders keep the order in which they were produced.
// Documents are returned sorted by path.
func Assemble(result template.Result) []Document {
	paths := make([]string, 0, len(result))
	for p := range result {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	docs := make([]Document, 0, len(paths))
	for _, p := range paths {
		blocks := make([]template.Block, len(result[p]))
		copy(blocks, result[p])
		sort.SliceStable(blocks, func(i, j int) bool {
			return blocks[i].Order < blocks[j].Order
		})

		var b strings.Builder
		for _, blk := range blocks {
			b.WriteString(blk.Body)
		}
		docs = append(docs, Document{Path: p, Content: b.String()})
	}
	return docs
}
