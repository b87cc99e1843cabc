package model

import "time"

// ActionKind classifies an audit log entry by the kind of mutation it
// records.
type ActionKind string

const (
	ActionCreate  ActionKind = "CREATE"
	ActionUpdate  ActionKind = "UPDATE"
	ActionDelete  ActionKind = "DELETE"
	ActionRequest ActionKind = "REQUEST"
	ActionPrint   ActionKind = "PRINT"
	ActionSystem  ActionKind = "SYSTEM"
)

// ActionLogEntry is one line of the append-only audit trail.  The
// engine writes exactly one entry per externally visible effect and
// never reads the log back for decisions.
//
// Fields:
//  ID          – primary key identifier.
//  StoreID     – store (tenant) the action happened in.
//  ActorID     – id of the acting user ("system" for unattended actions).
//  ActorName   – display name of the actor at the time of the action.
//  Kind        – action classification.
//  Target      – label of the affected object (room name, bill id...).
//  Description – human-readable summary of what changed.
//  CreatedAt   – server-assigned timestamp.
type ActionLogEntry struct {
	ID          string     // action_logs.id
	StoreID     string     // action_logs.store_id
	ActorID     string     // action_logs.actor_id
	ActorName   string     // action_logs.actor_name
	Kind        ActionKind // action_logs.kind
	Target      string     // action_logs.target
	Description string     // action_logs.description
	CreatedAt   time.Time  // action_logs.created_at
}
