package tokenizer

import (
	"errors"

	"github.com/pkoukk/tiktoken-go"

	"github.com/temirov/codegather/internal/utils"
)

var errNilCounter = errors.New("nil tokenizer counter")

// CountResult is the outcome of counting one block. Counted is false for
// binary data, which is never sent to the encoder.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountBytes counts the tokens in data with counter.
func CountBytes(counter Counter, data []byte) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errNilCounter
	}
	if utils.IsBinary(data) {
		return CountResult{}, nil
	}
	tokens, countErr := counter.CountString(string(data))
	if countErr != nil {
		return CountResult{}, countErr
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}

// tiktokenCounter counts with a tiktoken encoding.
type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter tiktokenCounter) Name() string {
	return counter.name
}

func (counter tiktokenCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("nil tiktoken encoding")
	}
	if input == "" {
		return 0, nil
	}
	return len(counter.encoding.Encode(input, nil, nil)), nil
}
