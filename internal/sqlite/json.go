package sqlite

import (
	"database/sql"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

// Export file names inside the export directory.
const (
	itemsJSONL   = "items.jsonl"
	closureJSONL = "closure.jsonl"
)

// itemJSON is one line of items.jsonl.
type itemJSON struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Sequence int     `json:"sequence"`
	Target   *string `json:"target"`
}

// edgeJSON is one line of closure.jsonl.
type edgeJSON struct {
	Ancestor   string `json:"ancestor"`
	Descendant string `json:"descendant"`
	Depth      int    `json:"depth"`
}

func itemRecord(it *types.Item) itemJSON {
	return itemJSON{
		ID:       it.ID,
		Title:    it.Title,
		URL:      it.URL,
		Sequence: it.Sequence,
		Target:   it.Target,
	}
}

func (r itemJSON) args() []any {
	target := sql.NullString{}
	if r.Target != nil {
		target = sql.NullString{String: *r.Target, Valid: true}
	}
	return []any{r.ID, r.Title, r.URL, r.Sequence, target}
}

func (r edgeJSON) args() []any {
	return []any{r.Ancestor, r.Descendant, r.Depth}
}
