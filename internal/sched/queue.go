// internal/sched/queue.go

package sched

import (
	"time"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// TaskQueue holds pending tasks ordered by deadline. Insertion is
// unordered from the caller's point of view; every peek observes the task
// with the globally minimum (DueTime, ID).
//
// TaskQueue is not safe for concurrent use. It belongs to a single scheduler.
type TaskQueue struct {
	rbt    *redblacktree.Tree // ordered by dueTime, then task ID
	peeked *Task              // result of the last PeekMin
}

// NewTaskQueue creates an empty queue.
func NewTaskQueue() *TaskQueue {
	return &TaskQueue{rbt: redblacktree.NewWith(cmp)}
}

// Insert adds t to the queue.
func (q *TaskQueue) Insert(t *Task) {
	q.rbt.Put(keyOf(t), t)
}

// PeekMin returns the most urgent task without removing it, or nil.
func (q *TaskQueue) PeekMin() *Task {
	node := q.rbt.Left()
	if node == nil {
		q.peeked = nil
		return nil
	}
	q.peeked = node.Value.(*Task)
	return q.peeked
}

// RemoveMin removes and returns the task observed by the last PeekMin.
// If that task is no longer queued, the current minimum is removed instead.
func (q *TaskQueue) RemoveMin() *Task {
	if t := q.peeked; t != nil {
		q.peeked = nil
		if _, found := q.rbt.Get(keyOf(t)); found {
			q.rbt.Remove(keyOf(t))
			return t
		}
	}

	node := q.rbt.Left()
	if node == nil {
		return nil
	}
	q.rbt.Remove(node.Key)
	return node.Value.(*Task)
}

// Len returns the number of queued tasks.
func (q *TaskQueue) Len() int { return q.rbt.Size() }

// Clear drops every queued task.
func (q *TaskQueue) Clear() {
	q.rbt.Clear()
	q.peeked = nil
}

// taskKey is used as a key in the red-black tree.
type taskKey struct {
	dueTime time.Duration
	id      TaskID
}

func keyOf(t *Task) taskKey { return taskKey{dueTime: t.DueTime, id: t.ID} }

// cmp orders keys by deadline, then by ID. IDs grow with insertion, so
// tasks sharing a deadline run in the order they were scheduled.
func cmp(a, b any) int {
	ka, kb := a.(taskKey), b.(taskKey)
	switch {
	case ka.dueTime < kb.dueTime:
		return -1
	case ka.dueTime > kb.dueTime:
		return 1
	case ka.id < kb.id:
		return -1
	case ka.id > kb.id:
		return 1
	default:
		return 0
	}
}

// removeTask drops t wherever it sits in the queue.
func (q *TaskQueue) removeTask(t *Task) {
	if q.peeked == t {
		q.peeked = nil
	}
	q.rbt.Remove(keyOf(t))
}
