// Package templates lists the template Epics available in the source project
// and resolves one template's children for display.
package templates
