// Package language classifies user utterances as Hindi or English.
package language

// Language is the two-valued classification driving all downstream wording.
type Language string

const (
	// Hindi covers Devanagari text and romanized Hindi.
	Hindi Language = "hindi"
	// English is the default when no Hindi signal is found.
	English Language = "english"
)
