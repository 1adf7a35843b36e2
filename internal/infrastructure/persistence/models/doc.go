// Package models holds the GORM row types and their mapping to the domain
// aggregates. Domain types carry no tags; everything the database needs to
// know lives here, one file per bounded context.
package models
