// Package status provides the shared progress tracker for crawl runs.
//
// The tracker is the synchronization point between exactly one crawl
// worker and any number of observers: the worker publishes per-site
// results through Update, and observers read a consistent deep-copied
// Snapshot at any time. TryStart gives the control server an atomic
// single-flight guard so two concurrent start requests cannot both
// launch a run.
package status
