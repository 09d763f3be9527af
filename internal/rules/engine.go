package rules

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// rule applies one substitution and reports whether the text changed.
type rule func(text string) (string, bool)

// Engine rewrites transcripts with substitutions loaded from a plain text
// file. Two line forms are supported:
//
//	spoken form => written form
//	s/pattern/replacement/flags
//
// Literal rules match case-insensitively. Regex rules take the flags i
// (case-insensitive) and g (replace all); without g only the first match is
// replaced. Blank lines and lines starting with # are skipped.
type Engine struct {
	rules  []rule
	passes int
}

// Load compiles the rules file at path. A missing file or an empty path
// yields an engine that passes text through unchanged.
func Load(path string, passes int) (*Engine, error) {
	if passes <= 0 {
		passes = 10
	}
	engine := &Engine{passes: passes}

	if strings.TrimSpace(path) == "" {
		return engine, nil
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return engine, nil
		}
		return nil, fmt.Errorf("failed to read rules file %q: %w", path, err)
	}

	for i, raw := range strings.Split(string(contents), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		compiled, err := compileLine(line)
		if err != nil {
			return nil, fmt.Errorf("rules file %q line %d: %w", path, i+1, err)
		}
		engine.rules = append(engine.rules, compiled)
	}
	return engine, nil
}

// Rewrite applies the rule set repeatedly until the text stops changing or
// the pass limit is reached.
func (e *Engine) Rewrite(text string) (string, error) {
	if len(e.rules) == 0 {
		return text, nil
	}

	for pass := 0; pass < e.passes; pass++ {
		changed := false
		for _, apply := range e.rules {
			next, ruleChanged := apply(text)
			if ruleChanged {
				text = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return text, nil
}

// Size reports how many rules are loaded.
func (e *Engine) Size() int {
	return len(e.rules)
}

func compileLine(line string) (rule, error) {
	if isRegexForm(line) {
		return compileRegexRule(line)
	}
	if strings.Contains(line, "=>") {
		return compileLiteralRule(line)
	}
	return nil, errors.New("unsupported rule format")
}

func compileLiteralRule(line string) (rule, error) {
	parts := strings.SplitN(line, "=>", 2)
	from := strings.TrimSpace(parts[0])
	to := strings.TrimSpace(parts[1])
	if from == "" {
		return nil, errors.New("literal rule source cannot be empty")
	}

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(from))
	if err != nil {
		return nil, fmt.Errorf("invalid literal source: %w", err)
	}
	return func(text string) (string, bool) {
		out := re.ReplaceAllString(text, to)
		return out, out != text
	}, nil
}

func isRegexForm(line string) bool {
	if len(line) < 2 || line[0] != 's' {
		return false
	}
	delim := line[1]
	return !(delim >= 'a' && delim <= 'z' ||
		delim >= 'A' && delim <= 'Z' ||
		delim >= '0' && delim <= '9' ||
		delim == ' ' || delim == '\t')
}

func compileRegexRule(line string) (rule, error) {
	delim := line[1]
	pattern, pos, err := readDelimited(line, 2, delim)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	replacement, pos, err := readDelimited(line, pos, delim)
	if err != nil {
		return nil, fmt.Errorf("invalid regex replacement: %w", err)
	}

	global := false
	for _, flag := range strings.TrimSpace(line[pos:]) {
		switch flag {
		case 'g':
			global = true
		case 'i':
			pattern = "(?i)" + pattern
		default:
			return nil, fmt.Errorf("unsupported regex flag %q", flag)
		}
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex: %w", err)
	}

	return func(text string) (string, bool) {
		if global {
			out := re.ReplaceAllString(text, replacement)
			return out, out != text
		}
		loc := re.FindStringIndex(text)
		if loc == nil {
			return text, false
		}
		out := text[:loc[0]] + re.ReplaceAllString(text[loc[0]:loc[1]], replacement) + text[loc[1]:]
		return out, out != text
	}, nil
}

// readDelimited scans up to the next unescaped delimiter, returning the
// segment and the position just past it.
func readDelimited(line string, start int, delim byte) (string, int, error) {
	if start >= len(line) {
		return "", 0, errors.New("unexpected end of expression")
	}

	var out strings.Builder
	escaped := false
	for i := start; i < len(line); i++ {
		c := line[i]
		if escaped {
			out.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			out.WriteByte(c)
			continue
		}
		if c == delim {
			return out.String(), i + 1, nil
		}
		out.WriteByte(c)
	}
	return "", 0, errors.New("unterminated expression")
}
