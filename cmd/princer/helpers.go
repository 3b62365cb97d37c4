package main

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// displayCategory renders the model's lowercase category label for humans.
func displayCategory(category string) string {
	return cases.Title(language.Und).String(category)
}
