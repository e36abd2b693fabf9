package client

import (
	"sort"

	apitasks "github.com/tasklane/tasklane/pkg/api/types/tasks"
	"github.com/tasklane/tasklane/pkg/domain"
)

// Board is a snapshot of tasks grouped into status columns, the way a
// kanban view lays them out.
//
// It is a pure value: rebuild it from a fresh task list rather than
// patching it, so duplicated or replayed refetches converge to the
// same board.
type Board struct {
	columns map[string][]apitasks.Detail
}

func NewBoard(tasks []apitasks.Detail) Board {
	columns := map[string][]apitasks.Detail{}
	for _, status := range domain.TaskStatuses() {
		columns[string(status)] = []apitasks.Detail{}
	}
	for _, task := range tasks {
		columns[task.Status] = append(columns[task.Status], task)
	}
	for status, column := range columns {
		// id breaks ties so two tasks sharing a position keep a
		// stable order across refetches.
		sort.SliceStable(column, func(i, j int) bool {
			if column[i].Position != column[j].Position {
				return column[i].Position < column[j].Position
			}
			return column[i].Id < column[j].Id
		})
		columns[status] = column
	}
	return Board{columns: columns}
}

// Column returns the tasks in a status column, in display order.
func (b Board) Column(status domain.TaskStatus) []apitasks.Detail {
	return b.columns[string(status)]
}

// Move computes the patch for dragging task to index in the column of
// status. It mirrors the board UI: the drop index is sent verbatim as
// the new position, and the server does not reindex siblings.
//
// The second return value is false when the drag is a no-op (same
// column, same index); no request should be sent then.
func (b Board) Move(task apitasks.Detail, status domain.TaskStatus, index int) (apitasks.TaskChange, bool) {
	if task.Status == string(status) {
		column := b.Column(status)
		for current, t := range column {
			if t.Id == task.Id {
				if current == index {
					return apitasks.TaskChange{}, false
				}
				break
			}
		}
	}

	newStatus := string(status)
	position := index
	return apitasks.TaskChange{
		Status:   &newStatus,
		Position: &position,
	}, true
}
