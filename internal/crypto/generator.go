package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/webgames/accounts-go/internal/validation"
)

const (
	upperClass  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerClass  = "abcdefghijklmnopqrstuvwxyz"
	digitClass  = "0123456789"
	symbolClass = validation.PasswordSymbols

	MaxSuggestionLength     = validation.MaxPasswordLength
	DefaultSuggestionLength = 16
)

var (
	ErrSuggestionTooShort = errors.New("password length must be at least 8")
	ErrSuggestionTooLong  = errors.New("password length must be at most 72")
	ErrNoClassSelected    = errors.New("at least one character class must be selected")
)

// SuggestionOptions selects length and character classes of a generated password.
type SuggestionOptions struct {
	Length  int
	Upper   bool
	Lower   bool
	Digits  bool
	Symbols bool
}

// PolicyOptions returns options whose output always satisfies the signup
// password policy.
func PolicyOptions() SuggestionOptions {
	return SuggestionOptions{
		Length:  DefaultSuggestionLength,
		Upper:   true,
		Lower:   true,
		Digits:  true,
		Symbols: true,
	}
}

// GeneratePassword returns a random password containing at least one
// character of every selected class.
func GeneratePassword(opts SuggestionOptions) (string, error) {
	if opts.Length < validation.MinPasswordLength {
		return "", ErrSuggestionTooShort
	}
	if opts.Length > MaxSuggestionLength {
		return "", ErrSuggestionTooLong
	}

	classes := opts.classes()
	if len(classes) == 0 {
		return "", ErrNoClassSelected
	}

	var alphabet string
	for _, c := range classes {
		alphabet += c
	}

	out := make([]byte, 0, opts.Length)
	for _, c := range classes {
		ch, err := pick(c)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}
	for len(out) < opts.Length {
		ch, err := pick(alphabet)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}

	if err := shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

func (o SuggestionOptions) classes() []string {
	var classes []string
	if o.Upper {
		classes = append(classes, upperClass)
	}
	if o.Lower {
		classes = append(classes, lowerClass)
	}
	if o.Digits {
		classes = append(classes, digitClass)
	}
	if o.Symbols {
		classes = append(classes, symbolClass)
	}
	return classes
}

func pick(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}

// shuffle is Fisher-Yates over crypto/rand.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		k := j.Int64()
		b[i], b[k] = b[k], b[i]
	}
	return nil
}
