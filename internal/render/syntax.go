package render

import (
	"errors"
	"fmt"
	"iter"
	"path/filepath"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/go-enry/go-enry/v2"

	"github.com/TimelordUK/gitvid/internal/palette"
	"github.com/TimelordUK/gitvid/internal/theme"
)

// ErrUnsupportedFileType is returned when no lexer matches the file name
var ErrUnsupportedFileType = errors.New("unsupported file type")

// PlainText is the classification used when highlighting is disabled
var PlainText = palette.Classification{chroma.Text.String()}

// Token is a classified span of source text
type Token struct {
	Class palette.Classification
	Text  string
}

// Tokenizer splits buffer text into classified spans
type Tokenizer struct {
	lexer   chroma.Lexer
	classes map[chroma.TokenType]palette.Classification
}

// NewTokenizer picks a lexer for filename. With highlight disabled no
// lexer is needed and every text is a single plain span.
func NewTokenizer(filename string, highlight bool) (*Tokenizer, error) {
	t := &Tokenizer{classes: make(map[chroma.TokenType]palette.Classification)}
	if !highlight {
		return t, nil
	}

	lexer := matchLexer(filename)
	if lexer == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Base(filename))
	}
	t.lexer = chroma.Coalesce(lexer)
	return t, nil
}

func matchLexer(filename string) chroma.Lexer {
	if lexer := lexers.Match(filename); lexer != nil {
		return lexer
	}

	// chroma only knows glob patterns; enry also knows bare filenames
	// and ambiguous extensions
	base := filepath.Base(filename)
	if lang, ok := enry.GetLanguageByFilename(base); ok {
		if lexer := lexers.Get(lang); lexer != nil {
			return lexer
		}
	}
	if lang, ok := enry.GetLanguageByExtension(base); ok {
		return lexers.Get(lang)
	}
	return nil
}

// LexerName returns the chosen lexer, or "plaintext"
func (t *Tokenizer) LexerName() string {
	if t.lexer == nil {
		return "plaintext"
	}
	return t.lexer.Config().Name
}

// Highlighting reports whether a lexer is in use
func (t *Tokenizer) Highlighting() bool {
	return t.lexer != nil
}

// Classify returns a forward-only sequence of tokens whose texts
// concatenate back to text
func (t *Tokenizer) Classify(text string) (iter.Seq[Token], error) {
	if t.lexer == nil {
		return func(yield func(Token) bool) {
			yield(Token{Class: PlainText, Text: text})
		}, nil
	}

	it, err := t.lexer.Tokenise(nil, text)
	if err != nil {
		return nil, fmt.Errorf("tokenise: %w", err)
	}

	return func(yield func(Token) bool) {
		for tok := range it.Stdlib() {
			if !yield(Token{Class: t.classify(tok.Type), Text: tok.Value}) {
				return
			}
		}
	}, nil
}

func (t *Tokenizer) classify(tt chroma.TokenType) palette.Classification {
	if class, ok := t.classes[tt]; ok {
		return class
	}
	class := theme.ClassOf(tt)
	t.classes[tt] = class
	return class
}
