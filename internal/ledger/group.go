package ledger

import (
	"sort"
	"time"

	"github.com/tally-fin/tally/internal/model"
)

// DayGroup is one calendar date's worth of transactions, in the order they
// arrived from the view.
type DayGroup struct {
	Date         time.Time
	Transactions []model.Transaction
}

// GroupByDate partitions a filtered view into one group per distinct calendar
// date, ordered by date descending. The input is not assumed to be sorted;
// within a group the input's relative order is preserved. An empty view
// yields zero groups, which callers render as an empty state.
func GroupByDate(filtered []model.Transaction) []DayGroup {
	if len(filtered) == 0 {
		return nil
	}

	index := make(map[time.Time]int)
	groups := make([]DayGroup, 0)
	for _, txn := range filtered {
		day := txn.Day()
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, DayGroup{Date: day})
		}
		groups[i].Transactions = append(groups[i].Transactions, txn)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date.After(groups[j].Date)
	})
	return groups
}
