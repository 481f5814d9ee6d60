// Package group tracks named sets of widgets of which at most one may be
// visible at a time.
package group

import (
	"sort"
	"sync"
)

// Registry maps group names to member sets. Membership within a group is
// unique; a member set that becomes empty is dropped.
//
// Registry is safe for concurrent use. The hide function passed to
// NewRegistry is always called without the registry lock held, so it may
// itself call Join or Leave.
type Registry[M comparable] struct {
	mu     sync.Mutex
	groups map[string][]M
	hide   func(M)
}

// NewRegistry creates an empty registry that hides members with hide.
func NewRegistry[M comparable](hide func(M)) *Registry[M] {
	return &Registry[M]{
		groups: make(map[string][]M),
		hide:   hide,
	}
}

// Join adds m to group. Joining twice is a no-op.
func (r *Registry[M]) Join(group string, m M) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.groups[group] {
		if existing == m {
			return
		}
	}
	r.groups[group] = append(r.groups[group], m)
}

// Leave removes m from group. Unknown groups and non-members are ignored.
func (r *Registry[M]) Leave(group string, m M) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.groups[group]
	for i, existing := range members {
		if existing != m {
			continue
		}
		members = append(members[:i:i], members[i+1:]...)
		if len(members) == 0 {
			delete(r.groups, group)
		} else {
			r.groups[group] = members
		}
		return
	}
}

// HideOthers hides every member of group except except. The member set is
// snapshotted first, so hide callbacks that leave or join the group do not
// disturb the iteration.
func (r *Registry[M]) HideOthers(group string, except M) {
	for _, m := range r.Members(group) {
		if m == except {
			continue
		}
		r.hide(m)
	}
}

// Members returns a copy of group's members in join order.
func (r *Registry[M]) Members(group string) []M {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.groups[group]
	if len(members) == 0 {
		return nil
	}
	out := make([]M, len(members))
	copy(out, members)
	return out
}

// Contains reports whether m is a member of group.
func (r *Registry[M]) Contains(group string, m M) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.groups[group] {
		if existing == m {
			return true
		}
	}
	return false
}

// Groups returns the names of all non-empty groups, sorted.
func (r *Registry[M]) Groups() []string {
	r.mu.Lock()
	names := make([]string, 0, len(r.groups))
	for name := range r.groups {
		names = append(names, name)
	}
	r.mu.Unlock()

	sort.Strings(names)
	return names
}
