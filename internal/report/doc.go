// Package report produces the final connection report.
//
// The report is the machine-parsable contract of a successful run: callers
// and scripts parse Host=, Port=, User= and ProxyTest= lines from stdout.
// Everything else the tool prints goes through the logging package on
// stderr, so stdout stays clean for consumers.
package report
