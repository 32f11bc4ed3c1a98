// Package crawler implements the contact-discovery engine of ContactFinder.
//
// # Architecture
//
// The package is organized around small, testable pieces that the
// Orchestrator composes into the per-site pipeline:
//
//   - Fetcher: performs single HTTP GETs with timeout and User-Agent
//   - ParseAnchors: extracts (href, text) anchor pairs in document order
//   - ExtractLinks / FindCandidateContactPages: link heuristics
//   - NormalizeSite / CollectSites: site discovery and deduplication
//   - ExtractContacts: email, obfuscated-email, and phone extraction
//   - Orchestrator: drives the sequential per-site crawl
//
// Design decision: We implement our own crawl loop rather than using a
// third-party crawling framework because:
//  1. The visiting order and delay placement are part of the observable
//     contract (deterministic output, shared politeness budget)
//  2. Per-site failure isolation is simpler to reason about in a plain loop
//  3. The whole engine is small enough that a framework would add more
//     surface than it removes
//
// # Politeness
//
// Site processing is strictly sequential. The configured delay is a
// shared budget for the whole run, not a per-host limit; parallelizing
// site visits would silently break that contract.
package crawler
