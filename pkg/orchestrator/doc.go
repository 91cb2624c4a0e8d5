// Package orchestrator wires disks, the upload stager, the rule validator and
// the renderer registry into ready-to-use components, and runs the usual
// validate, commit and render sequence for them.
package orchestrator
