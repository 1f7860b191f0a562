// Package watch re-runs a transformation whenever its source or rules file
// changes. Rapid events are debounced into a single run.
package watch
