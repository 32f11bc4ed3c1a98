// Package main provides the entry point for the ContactFinder CLI.
//
// ContactFinder crawls a member directory page, visits every member
// site it links to, and extracts contact information (email addresses
// and phone numbers) into a CSV file.
//
// Usage:
//
//	contactfinder crawl
//	contactfinder crawl --directory-url https://example.org/members/
//	contactfinder serve
//
// See --help for all available options.
package main

// main is the entry point for ContactFinder.
func main() {
	Execute()
}
