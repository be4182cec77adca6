package main

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/samber/lo"
)

// WordBank is the JSON structure of the word list file. Valid words can be
// chosen as secrets; invalid words may be guessed but are never secrets.
type WordBank struct {
	Valid   []string `json:"valid"`
	Invalid []string `json:"invalid"`
}

// Dictionary is the static word bank, loaded once at startup and read-only
// for the process lifetime.
type Dictionary struct {
	valid     []string
	guessable map[string]struct{}
}

// LoadDictionary reads the word bank file, drops entries of the wrong length
// and normalizes everything to lowercase.
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read word bank: %w", err)
	}
	var bank WordBank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parse word bank: %w", err)
	}
	return NewDictionary(bank)
}

// NewDictionary builds a Dictionary from an in-memory word bank. A bank that
// leaves no usable secret candidates is rejected.
func NewDictionary(bank WordBank) (*Dictionary, error) {
	keep := func(word string, _ int) bool {
		if len(word) != WordLength {
			logWarn("Skipping word %q: not %d letters", word, WordLength)
			return false
		}
		return true
	}
	valid := lo.Map(lo.Filter(bank.Valid, keep), func(w string, _ int) string {
		return strings.ToLower(w)
	})
	invalid := lo.Map(lo.Filter(bank.Invalid, keep), func(w string, _ int) string {
		return strings.ToLower(w)
	})

	if len(valid) == 0 {
		return nil, fmt.Errorf("word bank has no secret candidates of %d letters", WordLength)
	}

	guessable := make(map[string]struct{}, len(valid)+len(invalid))
	lo.ForEach(append(valid, invalid...), func(w string, _ int) {
		guessable[w] = struct{}{}
	})

	return &Dictionary{valid: valid, guessable: guessable}, nil
}

// IsValidGuess reports whether the word may be guessed at all.
func (d *Dictionary) IsValidGuess(word string) bool {
	_, ok := d.guessable[strings.ToLower(word)]
	return ok
}

// PickSecretWord returns a uniformly random secret candidate. Every call
// re-rolls; the chosen word is only pinned down when a game is created.
func (d *Dictionary) PickSecretWord() string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(d.valid))))
	if err != nil {
		logWarn("Error generating random number: %v, using fallback", err)
		return d.valid[0]
	}
	return d.valid[n.Int64()]
}

// SecretCount returns the number of secret candidates.
func (d *Dictionary) SecretCount() int { return len(d.valid) }

// GuessableCount returns the size of the full guessable set.
func (d *Dictionary) GuessableCount() int { return len(d.guessable) }
