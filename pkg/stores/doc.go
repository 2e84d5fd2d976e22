// Package stores provides the run-history store. Every pipeline run can be
// journaled with its input path, resolved components, and outcome, so that
// past calculations remain queryable after the process exits.
package stores
