/*
Package domain holds the core types of the chatflow engine: the dialogue
Node contract, the per-traversal answer Tally, and the render context
threaded into message production.
*/
package domain
