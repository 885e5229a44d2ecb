// Package journal records provisioning runs and their step outcomes.
package journal

import "database/sql"

// Run is one journaled invocation of the provisioning sequence.
type Run struct {
	ID         string
	StartedAt  string
	FinishedAt sql.NullString
	Status     string
	Operator   sql.NullString
	Host       sql.NullString
	Steps      []StepRecord
}

// StepRecord is a single executed (or attempted) step within a Run.
type StepRecord struct {
	ID         int64
	RunID      string
	Position   int
	Name       string
	Command    string
	Status     string
	ExitCode   sql.NullInt64
	StartedAt  string
	FinishedAt sql.NullString
}
