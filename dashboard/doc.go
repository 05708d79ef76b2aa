// Package dashboard holds the state-synchronisation core of the client:
// normalisation of heterogeneous payloads into canonical events, the pure
// reduction of those events into the feed/distribution/trend state, and the
// read-only view derivations drawn from that state.
//
// Nothing in this package performs I/O or returns errors.
package dashboard
