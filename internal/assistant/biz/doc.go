// Package biz implements the assistant pipeline: retrieval, candidate
// resolution, context assembly, answer generation, grounding, and the
// personalization scorer.
package biz
