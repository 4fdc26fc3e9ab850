package domain

import "strings"

// NotApplicableText is the wire encoding of a field the user chose to skip.
const NotApplicableText = "N/A"

// ValueState distinguishes an untouched field, a typed value and an explicit skip.
type ValueState int

const (
	Empty ValueState = iota
	Provided
	NotApplicable
)

// Value is a single form field value.
type Value struct {
	state ValueState
	text  string
}

// Provide wraps user input. Provide("N/A") is still a Provided value.
func Provide(text string) Value { return Value{state: Provided, text: text} }

// NA marks a field as intentionally not supplied.
func NA() Value { return Value{state: NotApplicable} }

func (v Value) State() ValueState { return v.state }

// Text returns the raw user input; empty for Empty and NotApplicable.
func (v Value) Text() string { return v.text }

// Filled reports whether the value satisfies a required-field check.
func (v Value) Filled() bool {
	switch v.state {
	case NotApplicable:
		return true
	case Provided:
		return strings.TrimSpace(v.text) != ""
	}
	return false
}

// String returns the wire encoding.
func (v Value) String() string {
	if v.state == NotApplicable {
		return NotApplicableText
	}
	return v.text
}
