// Package field declares the descriptors a form is built from. Inputs and
// files are leaves addressed by name; tabs, tab and section fields group
// descendants and are addressed by id. A Tree flattens the hierarchy in
// depth-first order and keeps parent links as indices so callers can walk from
// a failing input up to the tab that contains it.
package field
