// Package groupnetwork implements the organizational group router inside the
// policy-governance context.
//
// The module owns the group/relationship graph and the traversals over it:
// breadth-first shortest routes between a submitter's groups and a target
// group, a depth-bounded enumeration of alternate routes, and the conversion
// of a route into storable amendment path segments anchored to upcoming
// events.
package groupnetwork
