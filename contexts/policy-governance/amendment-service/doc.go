// Package amendment owns the amendment aggregate and its workflow state
// machine. Submission builds the amendment's group/event route through the
// group network; every later status move goes through domain/workflow.
package amendment
