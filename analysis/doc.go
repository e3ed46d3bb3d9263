// Package analysis runs LLM analyses over stored records.
//
// The Analyzer pulls recent records, renders them into a fixed prompt, and
// persists the model's response as a core.Analysis. Text-less records never
// reach the store, so every analyzed record contributes content to the
// prompt.
package analysis
