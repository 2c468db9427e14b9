// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tracking

import "github.com/taibuivan/listify/pkg/date"

/*
ApplyIntegrityRules normalizes entry for its status, in this order:

 1. Not planned: priority is cleared.
 2. Planned: rating, start and end dates are cleared and progress reset to 0.
 3. In progress without a start date: started today.
 4. Completed or dropped without an end date: ended today.
 5. Neither completed nor dropped: end date is cleared.

Applying the rules twice yields the same entry.
*/
func ApplyIntegrityRules(entry *Entry, today date.Date) {
	if entry.Status != StatusPlanned {
		entry.Priority = nil
	}

	if entry.Status == StatusPlanned {
		entry.Rating = nil
		entry.Progress = 0
		entry.StartDate = nil
		entry.EndDate = nil
	}

	if entry.Status == StatusInProgress && entry.StartDate == nil {
		started := today
		entry.StartDate = &started
	}

	finished := entry.Status == StatusCompleted || entry.Status == StatusDropped
	if finished && entry.EndDate == nil {
		ended := today
		entry.EndDate = &ended
	}

	if !finished {
		entry.EndDate = nil
	}
}
