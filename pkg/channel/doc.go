// Package channel is a minimal pub/sub bus keyed by integer ids.
//
// Every notification in weft flows through a Bus: a dependency emits on its
// own key when its value changes, mediators subscribe to the keys of the
// dependencies they read, and the scheduler announces each commit on a
// well-known key for tooling.
//
// Subscribers are keyed: subscribing twice with the same subscriber id
// replaces the earlier handler in place, so a subscriber never receives two
// notifications for one emit. Handlers run synchronously, in subscription
// order, over a snapshot of the subscriber list; a handler may emit,
// subscribe or unsubscribe reentrantly.
package channel
