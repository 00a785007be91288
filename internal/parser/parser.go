// Package parser extracts card templates from markdown files. A card is a
// block of prefixed lines:
//
//	W: the word on the front
//	H: an optional helper text
//	D: the definition on the back,
//	   possibly continued on following lines
//	E: a usage example (repeatable)
//	---
//
// A new W: line or a "---" separator closes the previous card. Lines outside
// any card are ignored, so cards can sit inside ordinary markdown notes.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Card is a parsed card template: content only, no identity and no
// scheduling state.
type Card struct {
	Word       string
	HelperText string
	Definition string
	Examples   []string
}

const (
	wordPrefix       = "W:"
	helperPrefix     = "H:"
	definitionPrefix = "D:"
	examplePrefix    = "E:"
	separator        = "---"
)

type state int

const (
	seeking state = iota
	readingWord
	readingHelper
	readingDefinition
	readingExample
)

// ParseFile reads a file from the given path and extracts all cards.
func ParseFile(path string) ([]Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all cards.
func Parse(r io.Reader) ([]Card, error) {
	scanner := bufio.NewScanner(r)
	var cards []Card
	var current Card
	var block []string
	st := seeking

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.Join(block, "\n")
		switch st {
		case readingWord:
			current.Word = content
		case readingHelper:
			current.HelperText = content
		case readingDefinition:
			current.Definition = content
		case readingExample:
			current.Examples = append(current.Examples, content)
		}
		block = nil
	}

	finishCard := func() {
		flushBlock()
		if current.Word != "" {
			cards = append(cards, current)
		}
		current = Card{}
		st = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		if line == separator {
			finishCard()
			continue
		}

		next := st
		switch {
		case strings.HasPrefix(line, wordPrefix):
			next = readingWord
		case strings.HasPrefix(line, helperPrefix):
			next = readingHelper
		case strings.HasPrefix(line, definitionPrefix):
			next = readingDefinition
		case strings.HasPrefix(line, examplePrefix):
			next = readingExample
		default:
			// Continuation line; only meaningful inside a card.
			if st != seeking {
				block = append(block, line)
			}
			continue
		}

		if next == readingWord && st != seeking {
			// A new word always starts a new card.
			finishCard()
		} else {
			flushBlock()
		}
		st = next
		block = append(block, strings.TrimPrefix(line[2:], " "))
	}

	finishCard() // Finish the very last card in the file.

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}
