/*
Package runtime implements the dialogue node state machine.

Five node kinds exist: the implicit init bootstrap, default (advance on
any input), qa (advance on the correct answer, with duplicate-attempt
suppression), store (record every answer into the traversal tally), and
end (announce the tally's most frequent choice and restart on the next
input). The compiled Graph maps node names to factories; a factory
binds a node instance to the running tally, which is shared by
reference along one traversal and only reset at the explicit entry and
restart points.
*/
package runtime
