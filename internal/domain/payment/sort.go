package payment

import (
	"sort"
)

// Less orders a before b when a is newer by paid_at ?? created_at, then by created_at
func Less(a, b *Payment) bool {
	at, bt := a.SortTime(), b.SortTime()
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// SortByPaidOrCreated sorts newest first in place
func SortByPaidOrCreated(items []*Payment) {
	sort.SliceStable(items, func(i, j int) bool {
		return Less(items[i], items[j])
	})
}

// SortWithUsersByPaidOrCreated is SortByPaidOrCreated for joined rows
func SortWithUsersByPaidOrCreated(items []*WithUser) {
	sort.SliceStable(items, func(i, j int) bool {
		return Less(&items[i].Payment, &items[j].Payment)
	})
}
