package domain

import "strings"

// ValueObject represents an immutable domain concept defined by its attributes.
type ValueObject interface {
	Equals(other ValueObject) bool
}

// DepartmentID identifies a department, shared across bounded contexts.
// Departments are referenced by a stable slug (e.g. "engineering"),
// not by a surrogate key.
type DepartmentID struct {
	value string
}

// NewDepartmentID creates a DepartmentID from a slug, normalized to lower case.
func NewDepartmentID(value string) DepartmentID {
	return DepartmentID{value: strings.ToLower(strings.TrimSpace(value))}
}

// String returns the slug form of the DepartmentID.
func (d DepartmentID) String() string {
	return d.value
}

// Equals checks if two DepartmentIDs are equal.
func (d DepartmentID) Equals(other ValueObject) bool {
	if otherID, ok := other.(DepartmentID); ok {
		return d.value == otherID.value
	}
	return false
}

// IsEmpty returns true if the DepartmentID is empty.
func (d DepartmentID) IsEmpty() bool {
	return d.value == ""
}
