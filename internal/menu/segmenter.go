package menu

import (
	"strings"

	"github.com/crawlbite/menuscan/pkg/types"
)

// segState names the segmenter accumulator state. There is no separate
// Completed state: attaching a price always emits and resets to segEmpty.
type segState int

const (
	segEmpty segState = iota
	segHasName
)

// pendingItem accumulates one item while its lines arrive. It lives only
// for the duration of a single panel's segmentation.
type pendingItem struct {
	name        string
	description string
}

// Segment assembles classified lines into menu items, category-less.
// An item spans a name line, any number of description lines, and a price
// line; incomplete accumulations are dropped and counted, never emitted.
//
// Transitions:
//
//	state    | price               | fragment            | noise
//	---------+---------------------+---------------------+------
//	Empty    | drop (orphan price) | start name -> HasName| skip
//	HasName  | emit item -> Empty  | extend description  | skip
func Segment(lines []string) ([]types.MenuItem, types.SegmentAnomalies) {
	var (
		items     []types.MenuItem
		anomalies types.SegmentAnomalies
		state     = segEmpty
		pending   pendingItem
	)

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cl := Classify(line)
		switch cl.Kind {
		case types.LinePrice, types.LinePriceOnly:
			if state == segHasName {
				items = append(items, types.MenuItem{
					Name:        pending.name,
					Description: pending.description,
					Price:       cl.Amount + " L.E",
				})
			} else {
				anomalies.OrphanPrices++
			}
			pending = pendingItem{}
			state = segEmpty

		case types.LineFragment:
			if state == segHasName {
				// Continuation of the current item, space-joined.
				pending.description += " " + cl.Text
			} else {
				pending = pendingItem{name: cl.Text}
				state = segHasName
			}

		case types.LineNoise:
			// Filler token, accumulator unchanged.
		}
	}

	if state == segHasName {
		// Name never got a price; no partial items are emitted.
		anomalies.IncompleteItems++
	}

	return items, anomalies
}
