package hook

import "github.com/gitops-tools/vcshook/internal/gitconfig"

// List is an ordered HookList: insertion order equals execution order.
// A small index over (command, from_hookdir) finds an existing entry in
// O(1) without the intrusive linked-list the original C index used;
// detaching that entry for a move or removal scans the ordered slice.
type List struct {
	entries []*Entry
	index   map[key]*Entry
}

// NewList returns an empty list.
func NewList() *List {
	return &List{index: make(map[key]*Entry)}
}

// Entries returns the list's entries in execution order. The returned
// slice is owned by the caller; List keeps its own internal copy.
func (l *List) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = *e
	}
	return out
}

// Len reports the number of entries.
func (l *List) Len() int { return len(l.entries) }

// Upsert records origin for command, moving an existing entry with the
// same (command, fromHookdir) identity to the tail, or appending a new
// one. This is the "move-to-end on redefinition" rule of spec.md §4.A:
// redefining a hook in a narrower scope both overrides its origin label
// and moves it to run last among its peers.
func (l *List) Upsert(command string, fromHookdir bool, origin gitconfig.Scope) *Entry {
	k := key{command: command, fromHookdir: fromHookdir}
	if e, ok := l.index[k]; ok {
		l.detach(e)
		e.Origin = origin
		l.entries = append(l.entries, e)
		return e
	}
	e := &Entry{Command: command, FromHookdir: fromHookdir, Origin: origin}
	l.index[k] = e
	l.entries = append(l.entries, e)
	return e
}

// Remove deletes the entry with the given (command, fromHookdir)
// identity, if present. Used for hookcmd.<v>.skip removal directives.
func (l *List) Remove(command string, fromHookdir bool) {
	k := key{command: command, fromHookdir: fromHookdir}
	e, ok := l.index[k]
	if !ok {
		return
	}
	l.detach(e)
	delete(l.index, k)
}

func (l *List) detach(e *Entry) {
	for i, cur := range l.entries {
		if cur == e {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}
