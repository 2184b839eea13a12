// Package cli is responsible for parsing command-line arguments, merging
// them with the environment and the optional profile file, and handling
// process-level concerns like exit codes. It translates CLI flags into the
// application's internal configuration.
package cli
