// Package llm provides the LLM completion capability used by the
// analysis pipeline: site metadata resolution, clause extraction,
// category scoring, and score explanation.
package llm
