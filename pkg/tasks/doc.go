// Package tasks implements per-user to-do items.
//
// [Service] validates input (titles are stripped of markup, whitespace
// folded and limited to [MaxTitleLength] runes) and delegates storage to a
// [Repository]. Every repository call carries the owner's user id, and a
// task that belongs to another user is reported as [ErrNotFound], the
// same as one that does not exist.
package tasks
