package main

import (
	"sort"
	"strings"
)

func (t ActionType) String() string {
	switch t {
	case ACTION_UPDATE:
		return "updated"
	case ACTION_DELETE:
		return "deleted"
	case ACTION_NEW:
		return "new"
	}
	return "unknown"
}

// Reconcile diffs the local index against the remote listing. Remote objects
// are visited in listing order; local paths never seen remotely are appended
// afterwards as new files in sorted order. The index is not modified.
func Reconcile(index LocalIndex, remote []RemoteObject, destroyOldFiles bool) Plan {
	var plan Plan
	seen := make(map[string]bool, len(remote))

	for _, object := range remote {
		localFingerprint, ok := index[object.Path]
		switch {
		case !ok:
			if !destroyOldFiles {
				continue
			}
			plan.add(ACTION_DELETE, object.Path, invalidationPaths(object.Path))
		case localFingerprint == object.Fingerprint:
			seen[object.Path] = true
			plan.Unchanged = append(plan.Unchanged, object.Path)
		default:
			seen[object.Path] = true
			plan.add(ACTION_UPDATE, object.Path, invalidationPaths(object.Path))
		}
	}

	var newPaths []string
	for path := range index {
		if !seen[path] {
			newPaths = append(newPaths, path)
		}
	}
	sort.Strings(newPaths)
	// new files have nothing cached yet, so they contribute no invalidations
	for _, path := range newPaths {
		plan.add(ACTION_NEW, path, nil)
	}

	return plan
}

func (p *Plan) add(t ActionType, path string, invalidations []string) {
	p.Actions = append(p.Actions, Action{Type: t, Path: path})
	p.invalidations = append(p.invalidations, invalidations)
}

// UpdatedPaths returns the invalidation paths of every action, in plan order.
func (p Plan) UpdatedPaths() []string {
	return p.updatedPathsFor(nil)
}

// updatedPathsFor restricts UpdatedPaths to actions marked in applied. A nil
// applied slice selects every action.
func (p Plan) updatedPathsFor(applied []bool) []string {
	paths := []string{}
	for i, invalidations := range p.invalidations {
		if applied != nil && !applied[i] {
			continue
		}
		paths = append(paths, invalidations...)
	}
	return paths
}

// NewFiles returns the paths of the plan's new-file uploads.
func (p Plan) NewFiles() []string {
	var paths []string
	for _, a := range p.Actions {
		if a.Type == ACTION_NEW {
			paths = append(paths, a.Path)
		}
	}
	return paths
}

func (p Plan) Count(t ActionType) int {
	n := 0
	for _, a := range p.Actions {
		if a.Type == t {
			n++
		}
	}
	return n
}

// invalidationPaths returns the CDN paths for a changed object key: the key
// itself with a leading slash, plus the directory form when the key names an
// index document.
func invalidationPaths(key string) []string {
	path := "/" + key
	paths := []string{path}
	if strings.HasSuffix(path, "/"+INDEX_DOCUMENT) {
		paths = append(paths, strings.TrimSuffix(path, INDEX_DOCUMENT))
	}
	return paths
}
