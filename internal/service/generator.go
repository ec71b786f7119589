package service

import (
	"github.com/webgames/accounts-go/internal/crypto"
	"github.com/webgames/accounts-go/internal/model"
)

// GeneratorService suggests passwords for new accounts.
type GeneratorService struct{}

// NewGeneratorService creates a new GeneratorService.
func NewGeneratorService() *GeneratorService {
	return &GeneratorService{}
}

// Suggest produces a password for req. Omitted classes are included and a
// zero length selects the default, so an empty request always yields a
// password accepted by signup.
func (s *GeneratorService) Suggest(req model.PasswordSuggestionRequest) (model.PasswordSuggestion, error) {
	opts := crypto.PolicyOptions()
	if req.Length != 0 {
		opts.Length = req.Length
	}
	opts.Upper = boolOrDefault(req.Uppercase, opts.Upper)
	opts.Lower = boolOrDefault(req.Lowercase, opts.Lower)
	opts.Digits = boolOrDefault(req.Numbers, opts.Digits)
	opts.Symbols = boolOrDefault(req.Symbols, opts.Symbols)

	password, err := crypto.GeneratePassword(opts)
	if err != nil {
		return model.PasswordSuggestion{}, err
	}

	return model.PasswordSuggestion{
		Password: password,
		Length:   len(password),
	}, nil
}

func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
