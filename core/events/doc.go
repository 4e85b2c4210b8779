// Package events defines the planning events emitted on the event bus.
//
// Available event types:
//   - PlanCompleted: a demand series was resolved into a plan
package events
