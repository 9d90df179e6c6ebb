package merge

import (
	orderedmap "github.com/wk8/go-ordered-map"
)

// Batch collects the tokens of one add-translation run. Keys keep the order
// in which they were first seen; a repeated key is resolved as follows:
//
//	first untranslated, second untranslated  -> second ignored
//	first translated,   second untranslated  -> second ignored
//	first translated,   second translated    -> second wins, warning
//	first untranslated, second translated    -> second wins
type Batch struct {
	// Prefix is prepended to keys given without text.
	Prefix string
	// OnWarn is called when a translated key is overwritten by another
	// translation. Optional.
	OnWarn func(format string, args ...any)

	// Errors holds the token errors seen so far, in order.
	Errors []error

	tokens *orderedmap.OrderedMap
}

// NewBatch creates an empty batch.
func NewBatch(prefix string) *Batch {
	return &Batch{Prefix: prefix, tokens: orderedmap.New()}
}

// Add parses a raw KEY[:TEXT] argument and merges it into the batch. An
// invalid token is recorded in Errors and returned; the batch stays usable.
func (b *Batch) Add(raw string) error {
	tok, err := ParseToken(raw, b.Prefix)
	if err != nil {
		b.Errors = append(b.Errors, err)
		return err
	}
	b.put(tok)
	return nil
}

// AddAll adds every argument and returns the token errors of this call.
func (b *Batch) AddAll(raws []string) []error {
	var errs []error
	for _, raw := range raws {
		if err := b.Add(raw); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (b *Batch) put(tok Token) {
	if b.tokens == nil {
		b.tokens = orderedmap.New()
	}
	v, ok := b.tokens.Get(tok.Key)
	if !ok {
		b.tokens.Set(tok.Key, tok)
		return
	}
	first := v.(Token)
	if !tok.Translated {
		return
	}
	if first.Translated && first.Text != tok.Text && b.OnWarn != nil {
		b.OnWarn("translation %q given twice: %q replaced by %q", tok.Key, first.Text, tok.Text)
	}
	b.tokens.Set(tok.Key, tok)
}

// Get returns the resolved token for key.
func (b *Batch) Get(key string) (Token, bool) {
	if b.tokens == nil {
		return Token{}, false
	}
	v, ok := b.tokens.Get(key)
	if !ok {
		return Token{}, false
	}
	return v.(Token), true
}

// Tokens returns the resolved tokens in first-seen key order.
func (b *Batch) Tokens() []Token {
	if b.tokens == nil {
		return nil
	}
	out := make([]Token, 0, b.tokens.Len())
	for pair := b.tokens.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.(Token))
	}
	return out
}

// Len returns the number of distinct keys.
func (b *Batch) Len() int {
	if b.tokens == nil {
		return 0
	}
	return b.tokens.Len()
}
