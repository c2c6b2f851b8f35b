// Package source retrieves the raw text of definition files (the nickname
// script, the sprite schemas) from their repositories.
//
// Three fetchers share the Fetcher interface:
//
//   - HTTPFetcher reads from a raw content host with retries.
//   - GitFetcher keeps bare clones up to date with go-git.
//   - FileFetcher reads a local mirror directory.
//
// CachedFetcher puts any of them behind a kvcache.Store so repeated reads
// within the TTL do not touch the network. Watcher reports changes to a
// mirrored file.
package source
