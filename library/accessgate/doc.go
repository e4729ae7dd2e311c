// Package accessgate issues and resolves bearer tokens and guards gin routes by authentication and role.
package accessgate
