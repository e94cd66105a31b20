// Package store defines the persistence ports used by the generation flow:
// generations, generation error records and the card sets they target.
// Implementations live in internal/platform/postgres.
package store
