/*
Package line implements the thin wire layer against the LINE Messaging
API: webhook event parsing with signature verification, the outgoing
message shapes, and the reply delivery client.

The chatflow engine itself never touches HTTP; it consumes parsed Event
values and produces Message lists. Everything platform-specific lives
here.
*/
package line
