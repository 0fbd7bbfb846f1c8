// Package captions converts subtitle/caption tracks (WebVTT, SRT) into
// plain transcript text.
package captions

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/log"
	"golang.org/x/text/language"
)

// cueTagRe strips inline cue markup like <c.colorE5E5E5>, <i>, </b> and
// karaoke timestamps like <00:00:01.500>.
var cueTagRe = regexp.MustCompile(`<[^>]*>`)

// Parser reads a caption file line by line and keeps only spoken text.
type Parser struct {
	logger *log.Logger
}

func NewParser(logger *log.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse extracts plain transcript text from a caption file. It fails soft:
// any read error yields empty text so the caller can fall back to audio
// extraction.
func (p *Parser) Parse(path string) string {
	f, err := os.Open(path)
	if err != nil {
		p.logger.Error("Failed to open caption file %s: %v", path, err)
		return ""
	}
	defer f.Close()

	var kept []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !isTextLine(line) {
			continue
		}

		line = strings.TrimSpace(cueTagRe.ReplaceAllString(line, ""))
		if line != "" {
			kept = append(kept, line)
		}
	}

	if err := scanner.Err(); err != nil {
		p.logger.Error("Failed to read caption file %s: %v", path, err)
		return ""
	}

	p.logger.Info("Parsed %d caption lines from %s", len(kept), path)
	return strings.Join(kept, " ")
}

// isTextLine filters out the format header, timing ranges, sequence numbers
// and annotation/metadata lines.
func isTextLine(line string) bool {
	switch {
	case line == "":
		return false
	case strings.HasPrefix(line, "WEBVTT"):
		return false
	case strings.Contains(line, "-->"):
		return false
	case isDigits(line):
		return false
	case strings.HasPrefix(line, "NOTE"):
		return false
	case strings.HasPrefix(line, "STYLE"):
		return false
	case strings.HasPrefix(line, "Kind:"):
		return false
	case strings.HasPrefix(line, "Language:"):
		return false
	}
	return true
}

func isDigits(line string) bool {
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(line) > 0
}

// DetectLanguage guesses the dominant language of a transcript by majority
// vote across its lines.
func DetectLanguage(text string) language.Tag {
	text = strings.TrimSpace(text)
	if text == "" {
		return language.Und
	}

	langMap := make(map[string]int)
	for _, chunk := range strings.Split(text, ". ") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		lang := whatlanggo.DetectLang(chunk).Iso6391()
		langMap[lang]++
	}

	var topLang string
	var topCount int
	for lang, count := range langMap {
		if count > topCount {
			topLang = lang
			topCount = count
		}
	}

	return language.Make(topLang)
}
