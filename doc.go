// Package wstate is a widget-state reconciliation engine: it tracks the
// value of every interactive widget across successive executions of a
// server-side script, merges client-submitted updates with
// server-computed defaults, rejects duplicate widget identities, and
// decides when a value-change callback must fire.
//
// Responsibilities:
//   - WidgetID derives a stable identity from a widget's type and
//     configuration, or uses the caller's explicit key verbatim.
//   - SessionState layers committed, pending-widget and pending-user
//     values; later layers shadow earlier ones; the pending layers fold
//     into committed at the end of every execution.
//   - Register ties one widget per execution to its identity, installs
//     its codec, and returns the merged value.
//   - CoalesceWidgetStates merges consecutive wire snapshots so that
//     in-flight trigger values survive a client resend racing a rerun.
//
// Data flow:
//
//	client snapshot -> Session.Ingest -> Begin -> Register/StateMap
//	  -> Finish -> callbacks + outgoing snapshot -> compaction
//
// Sessions assume a single logical owner; pkg/session serializes
// concurrent reruns per session. pkg/uploads holds the upload
// collaborator contract consumed by the file-uploader element, and
// pkg/events fans widget-change events out to hooks.
package wstate
