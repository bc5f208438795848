// Package migration implements the Epic template migration workflow: the
// temporal remapper that shifts every date by one uniform day offset, the
// deterministic child ordering, and the executor that creates the destination
// Epic, its children, and the reconstructed issue links through the issue
// repository collaborator.
package migration
