package main

import (
	"fmt"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// Tokenizer is an interface for different tokenizer implementations.
type Tokenizer interface {
	CountTokens(text string) int
	Close()
}

// --- Tiktoken Wrapper ---

type TiktokenWrapper struct {
	ttk *tiktoken.Tiktoken
}

func (w *TiktokenWrapper) CountTokens(text string) int {
	if w.ttk == nil {
		return 0
	}
	return len(w.ttk.EncodeOrdinary(text))
}

func (w *TiktokenWrapper) Close() {}

// --- HuggingFace (sugarme) Wrapper ---

type HFTokenizerWrapper struct {
	htk *hf.Tokenizer
	log *ConsoleLogger
}

func (w *HFTokenizerWrapper) CountTokens(text string) int {
	if w.htk == nil {
		return 0
	}
	en, err := w.htk.EncodeSingle(text)
	if err != nil {
		w.log.Warnf("HF tokenizer failed to encode text: %v", err)
		return 0
	}
	return len(en.Tokens)
}

func (w *HFTokenizerWrapper) Close() {}

// --- Tokenizer Loading Logic ---

const defaultTiktokenModel = "gpt-4o" // Default if tokenizer is tiktoken
const defaultHFModel = "gpt2"         // Default if tokenizer is huggingface and no model specified

// TokenizerOptions selects and locates a tokenizer.
type TokenizerOptions struct {
	Type  string // tiktoken or huggingface
	Model string
	File  string // Local tokenizer.json, huggingface only
}

// getTokenizer returns a tokenizer instance for opts.
func getTokenizer(opts TokenizerOptions, log *ConsoleLogger) (Tokenizer, error) {
	log.Debugf("Initializing tokenizer (Type: %s, Model: %s, File: %s)", opts.Type, opts.Model, opts.File)

	switch strings.ToLower(opts.Type) {
	case "", "tiktoken":
		return loadTiktoken(opts.Model, log)
	case "huggingface":
		return loadHuggingFace(opts.Model, opts.File, log)
	default:
		return nil, fmt.Errorf("unsupported tokenizer type: %s. Use 'tiktoken' or 'huggingface'", opts.Type)
	}
}

func loadTiktoken(model string, log *ConsoleLogger) (Tokenizer, error) {
	if model == "" {
		model = defaultTiktokenModel
	}

	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		log.Warnf("Tiktoken model '%s' not found, falling back to default '%s'. Error: %v", model, defaultTiktokenModel, err)
		tke, err = tiktoken.EncodingForModel(defaultTiktokenModel)
		if err != nil {
			return nil, fmt.Errorf("failed to get tiktoken encoding for default model '%s': %w", defaultTiktokenModel, err)
		}
	}
	return &TiktokenWrapper{ttk: tke}, nil
}

func loadHuggingFace(model, file string, log *ConsoleLogger) (Tokenizer, error) {
	if file != "" {
		log.Infof("Loading HuggingFace tokenizer from file: %s", file)
		ttk, err := pretrained.FromFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load tokenizer from file %s: %w", file, err)
		}
		return &HFTokenizerWrapper{htk: ttk, log: log}, nil
	}

	if model == "" {
		model = defaultHFModel
	}
	log.Infof("Loading HuggingFace tokenizer for model: %s (this may download files)", model)

	configFilePath, err := hf.CachedPath(model, "tokenizer.json")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache path for model %s: %w", model, err)
	}

	ttk, err := pretrained.FromFile(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pretrained tokenizer for model %s (from %s): %w", model, configFilePath, err)
	}
	return &HFTokenizerWrapper{htk: ttk, log: log}, nil
}

// countSectionTokens returns a visit func for writeDocument that fills in
// Section.TokenCount. Sections whose read failed are not counted.
func countSectionTokens(tk Tokenizer) func(*Section) {
	return func(s *Section) {
		if s.Err != nil || s.Content == "" {
			return
		}
		s.TokenCount = tk.CountTokens(s.Content)
	}
}
