package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pagoda-notes/pagoda/internal/types"
)

// Pre-compiled patterns for cleaning model output. Models frequently
// wrap JSON in code fences or leave trailing commas; both would fail a
// strict parse.
var (
	codeFenceRegex     = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")
	trailingCommaRegex = regexp.MustCompile(`,(\s*[}\]])`)
	jsonArrayRegex     = regexp.MustCompile(`(?s)\[[\s\S]*\]`)
)

// blockListEnvelope matches the object form some responses use instead
// of a bare array
type blockListEnvelope struct {
	Blocks []types.RawBlock `json:"blocks"`
}

// parseRawBlocks extracts a raw block list from model output.
//
// Strategy sequence:
//  1. direct parse (bare array or {"blocks": [...]} envelope)
//  2. strip code fences and retry
//  3. remove trailing commas and retry
//  4. extract the first JSON array from mixed prose and retry
func parseRawBlocks(text string) ([]types.RawBlock, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("empty response")
	}

	if blocks, err := tryParse(trimmed); err == nil {
		return blocks, nil
	}

	if m := codeFenceRegex.FindStringSubmatch(trimmed); m != nil {
		if blocks, err := tryParse(strings.TrimSpace(m[1])); err == nil {
			return blocks, nil
		}
	}

	cleaned := trailingCommaRegex.ReplaceAllString(trimmed, "$1")
	if blocks, err := tryParse(cleaned); err == nil {
		return blocks, nil
	}

	if m := jsonArrayRegex.FindString(cleaned); m != "" {
		if blocks, err := tryParse(m); err == nil {
			return blocks, nil
		}
	}

	return nil, fmt.Errorf("no parseable block list in response (%s)", truncate(trimmed, 200))
}

func tryParse(text string) ([]types.RawBlock, error) {
	if strings.HasPrefix(text, "{") {
		var envelope blockListEnvelope
		if err := json.Unmarshal([]byte(text), &envelope); err != nil {
			return nil, err
		}
		if envelope.Blocks == nil {
			return nil, fmt.Errorf("object response has no blocks field")
		}
		return envelope.Blocks, nil
	}

	var blocks []types.RawBlock
	if err := json.Unmarshal([]byte(text), &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
