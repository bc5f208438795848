// Package projects lists the target projects eligible to receive a migrated
// Epic, filtered by project category.
package projects
