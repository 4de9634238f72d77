// Package elements provides typed widget constructors over the
// registration protocol. Each constructor derives the widget's identity
// from its semantic configuration, installs the widget's codec and
// change callback, and returns the current merged value for this
// execution.
//
// Constructors are safe to call without a live execution in ctx; they
// then return the widget's default without touching any session.
package elements
