// Package model defines the core data structures shared across ContactFinder.
// It contains the per-site crawl result and the observer-facing status
// snapshot. Keeping these in a leaf package avoids import cycles between
// the crawler, the status tracker, and the report writers.
package model
