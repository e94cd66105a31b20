// Package domain holds the entities persisted by the generation flow:
// generations, generation error records and card sets, with the validation
// each must pass before insertion.
package domain
