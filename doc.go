/*
Package chatflow drives a conversational quiz through a chat-platform
webhook. A declarative YAML graph describes the whole conversation:
each node bundles the messages it sends and an action deciding how user
input moves the dialogue forward. The package compiles that graph once
at startup and interprets inbound events against it per user.

The interesting parts live below:

  - pkg/chatgraph parses the raw graph document into typed specs
  - internal/validator rejects inconsistent graphs before compilation
  - internal/compiler expands message specs into producers, including
    the two generated choice layouts
  - internal/runtime runs the five-kind node state machine with quiz
    scoring and tally-based branching
  - pkg/session keeps the per-user directory with same-user
    serialization

Everything else is thin I/O plumbing around the LINE Messaging API.
*/
package chatflow
