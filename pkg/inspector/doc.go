// Package inspector observes committed fiber trees.
//
// The scheduler emits the root fiber on scheduler.ChannelInspector after
// every commit. An Inspector subscribed to that channel turns each emission
// into a Snapshot: a plain, serializable copy of the tree that is safe to
// hand to other goroutines. Snapshots can be printed as a table, streamed to
// browsers over a websocket Hub, served by a Server and archived to S3.
package inspector
