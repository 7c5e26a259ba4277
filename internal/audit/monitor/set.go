package monitor

import "sort"

// ExecutableSet is the deduplicated set of executable paths observed across
// all samples of a monitoring window. It has a single writer (the monitor,
// during the window) and is read-only once Observe returns; no locking is
// needed beyond that discipline.
type ExecutableSet struct {
	members map[string]struct{}
}

// NewExecutableSet creates an empty ExecutableSet.
func NewExecutableSet() *ExecutableSet {
	return &ExecutableSet{
		members: make(map[string]struct{}),
	}
}

// Add inserts a path into the set. Duplicate inserts are no-ops.
func (s *ExecutableSet) Add(path string) {
	s.members[path] = struct{}{}
}

// Contains reports whether path is a member of the set. Membership is
// exact-string; no symlink or relative-path normalization is performed.
func (s *ExecutableSet) Contains(path string) bool {
	_, ok := s.members[path]
	return ok
}

// Len returns the number of distinct paths observed.
func (s *ExecutableSet) Len() int {
	return len(s.members)
}

// Paths returns the members in sorted order, for stable logging and tests.
func (s *ExecutableSet) Paths() []string {
	paths := make([]string, 0, len(s.members))
	for path := range s.members {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
