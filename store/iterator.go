package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/ledger/errors"
)

// mergeItems combines the sorted output of the parent iterator with the
// sorted items cached in a btree. Cached items take precedence: a set item
// overwrites the parent value and a deleted item hides it.
func mergeItems(parent Iterator, local []btree.Item) ([]Model, error) {
	var res []Model

	pk, pv, err := parent.Next()
	parentDone := errors.ErrIteratorDone.Is(err)
	if err != nil && !parentDone {
		return nil, err
	}

	for i := 0; i < len(local) || !parentDone; {
		var cmp int
		switch {
		case parentDone:
			cmp = 1
		case i >= len(local):
			cmp = -1
		default:
			cmp = bytes.Compare(pk, local[i].(keyer).Key())
		}

		if cmp < 0 {
			res = append(res, Pair(pk, pv))
		} else {
			if item, ok := local[i].(setItem); ok {
				res = append(res, Pair(item.key, item.value))
			}
			i++
		}

		// Advance the parent unless only the cached item was consumed.
		if cmp <= 0 {
			pk, pv, err = parent.Next()
			parentDone = errors.ErrIteratorDone.Is(err)
			if err != nil && !parentDone {
				return nil, err
			}
		}
	}
	return res, nil
}
