// masvalidator checks user content against definitions published in the
// Monika After Story repositories.
//
// It classifies nicknames using the lists in the mod's event script, and
// validates sprite JSON documents against the sprite schema repository.
//
// Usage:
//
//	# Classify names
//	masvalidator classify Moni "Sweet Pea"
//
//	# Validate sprite documents
//	masvalidator validate hair/ponytail.json clothes/*.json
//
//	# Show the extracted nickname lists
//	masvalidator lists
//
//	# Serve the HTTP API
//	masvalidator serve --config masvalidator.yaml
//
//	# Inspect or purge the definition cache
//	masvalidator cache stats
package main

func main() {
	Execute()
}
