// Curator is the data-retention daemon for the Formloft forms backend.
//
// It deletes form submissions, together with their field values and
// action log entries, once they are older than the administrator's
// retention threshold. Purging runs on a persistent daily trigger.
//
// Usage:
//
//	# Start the retention daemon
//	curator run --config /etc/curator/config.yaml
//
//	# Run a single purge now
//	curator purge
//
//	# Preview what a purge would delete
//	curator purge --dry-run
//
//	# Read or write the retention threshold
//	curator settings get
//	curator settings set 30
//
//	# Show version information
//	curator version
package main

func main() {
	Execute()
}
