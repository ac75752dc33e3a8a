// Command soundbox plays digit sequences as a beat-synchronized particle visual in the terminal.
//
// Subcommands render offline snapshots, print step allocations and palindrome signatures,
// and manage the configuration file.
package main
