// Package server provides the HTTP control surface for ContactFinder.
//
// The server is a thin facade over the crawl engine and the status
// tracker: POST /api/start launches a run on a background worker (with a
// single-flight guard rejecting concurrent runs), and GET /api/status
// returns the tracker's snapshot so observers can poll in-flight state
// at any cadence without blocking the worker.
package server
