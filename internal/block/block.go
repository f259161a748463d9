// Package block describes the info annotations shown around the stage list
// and evaluates them against the caller's data bag.
package block

import (
	"fmt"
	"maps"
	"strconv"
)

// Kind is the shape of an info item.
type Kind int

const (
	// Message is a free-form line of text
	Message Kind = iota
	// StaticKeyValue is a label and value that never shows a spinner
	StaticKeyValue
	// DynamicKeyValue is a label whose empty value shows a spinner
	DynamicKeyValue
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case Message:
		return "message"
	case StaticKeyValue:
		return "static"
	case DynamicKeyValue:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Data is the caller-owned bag passed to every value function.
type Data map[string]any

// Merge returns a new bag holding d overlaid with other. Keys in other win.
func (d Data) Merge(other Data) Data {
	out := make(Data, len(d)+len(other))
	maps.Copy(out, d)
	maps.Copy(out, other)
	return out
}

// String returns the value under key formatted with %v, or "" when absent.
func (d Data) String(key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Int returns the value under key as an int.
func (d Data) Int(key string) (int, bool) {
	switch v := d[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	default:
		return 0, false
	}
}

// Descriptor declares one info item.
type Descriptor struct {
	Kind  Kind
	Label string
	// Stage, when set, attaches the item to that stage. Empty means global.
	Stage string
	// Value is used when Get is nil.
	Value string
	// Get reads the value from the data bag, for every kind.
	Get  func(Data) string
	Bold bool
	// Color is a lipgloss color string (ANSI index or hex). Empty means default.
	Color string
	// NeverCollapse keeps the item visible until its whole block is dropped.
	NeverCollapse bool
	// OnlyShowAtEndInCI suppresses the item in line mode until the final frame.
	OnlyShowAtEndInCI bool
}

// Formatted is a descriptor evaluated against a data bag.
type Formatted struct {
	Kind              Kind
	Label             string
	Stage             string
	Value             string
	Bold              bool
	Color             string
	NeverCollapse     bool
	OnlyShowAtEndInCI bool
	// Index is the position of the descriptor in its block.
	Index int
}

// Text returns the single-string form of the item: "label: value" for key
// values and the bare value for messages.
func (f Formatted) Text() string {
	if f.Kind == Message {
		return f.Value
	}
	return f.Label + ": " + f.Value
}

// Pending reports whether a dynamic value has not been produced yet.
func (f Formatted) Pending() bool {
	return f.Kind == DynamicKeyValue && f.Value == ""
}

// Format evaluates every descriptor against data. A value function that
// panics yields an empty value for that item only.
func Format(descriptors []Descriptor, data Data) []Formatted {
	if len(descriptors) == 0 {
		return nil
	}
	out := make([]Formatted, len(descriptors))
	for i, d := range descriptors {
		out[i] = Formatted{
			Kind:              d.Kind,
			Label:             d.Label,
			Stage:             d.Stage,
			Value:             evaluate(d, data),
			Bold:              d.Bold,
			Color:             d.Color,
			NeverCollapse:     d.NeverCollapse,
			OnlyShowAtEndInCI: d.OnlyShowAtEndInCI,
			Index:             i,
		}
	}
	return out
}

func evaluate(d Descriptor, data Data) (value string) {
	if d.Get == nil {
		return d.Value
	}
	defer func() {
		if r := recover(); r != nil {
			value = ""
		}
	}()
	return d.Get(data)
}

// ForStage returns the items attached to stage.
func ForStage(items []Formatted, stage string) []Formatted {
	var out []Formatted
	for _, it := range items {
		if it.Stage == stage {
			out = append(out, it)
		}
	}
	return out
}

// Global returns the items not attached to any stage.
func Global(items []Formatted) []Formatted {
	return ForStage(items, "")
}
