// Package types defines the TreeEngine interface, the item and closure
// entities, configuration, and the standard errors for navtree.
//
// A navtree is a single rooted tree of labeled items stored as a closure
// table: every ancestor/descendant pair is materialized with its depth.
// The root item always exists and has the id RootID.
package types
