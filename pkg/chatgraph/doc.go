/*
Package chatgraph defines the declarative conversation graph document:
a mapping from node name to a message list plus an action, parsed once
at startup into a closed set of typed specs.

Parsing is strict and total. Unknown message or action kinds, malformed
template ids, and shape violations all fail the load with the first
offending node in document order; nothing is compiled from a document
that did not parse in full.
*/
package chatgraph
