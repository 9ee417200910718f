// Package memory implements the bounded conversational memory manager: an
// ordered transcript under a token budget, split into a verbatim short-term
// window and compacted long-term blocks, with pluggable adapters applied at
// context assembly time.
//
// Memory silently degrades to a smaller context rather than failing a run:
// entries that cannot fit the budget are omitted, oldest first.
package memory
