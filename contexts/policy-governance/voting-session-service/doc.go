// Package votingsession implements the voting session engine inside the
// policy-governance context.
//
// The module owns vote and ballot capture (one vote per voter per session),
// session open/close orchestration, and the majority calculations that decide
// passed/rejected/tie outcomes and election winners. Business rules live in
// the domain/application layers; infrastructure is isolated behind ports and
// adapters. Session-closed events reach the outcome dispatcher through the
// outbox.
package votingsession
