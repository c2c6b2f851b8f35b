// Package nickname extracts the nickname lists from the upstream Ren'Py
// script and classifies names against them.
//
// The script defines five list literals (bad names, good base names, good
// player and Monika modifiers, awkward names). BuildRuleSets turns them
// into four categories of case-insensitive patterns:
//
//	bad        = bad list + the built-in "badname" pattern
//	awkward    = awkward list
//	playerGood = good base + player modifiers
//	monikaGood = good base + Monika modifiers
//
// Classify walks the categories in the order it is given and returns the
// first match, so the caller decides precedence. Service adds fetching,
// revision tracking and a configured default order on top.
package nickname
