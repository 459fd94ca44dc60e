package usecase

import (
	"bytes"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

const frontMatterDelim = "---"

// splitFrontMatter separates a leading YAML front matter block from the body.
// A document without one returns nil metadata and the full text.
func splitFrontMatter(src []byte) (map[string]any, string, error) {
	text := string(bytes.TrimPrefix(src, []byte("\ufeff")))
	if !strings.HasPrefix(text, frontMatterDelim+"\n") && !strings.HasPrefix(text, frontMatterDelim+"\r\n") {
		return nil, text, nil
	}

	rest := text[strings.Index(text, "\n")+1:]
	end := -1
	offset := 0
	for _, line := range strings.SplitAfter(rest, "\n") {
		if strings.TrimRight(line, "\r\n") == frontMatterDelim {
			end = offset
			break
		}
		offset += len(line)
	}
	if end < 0 {
		return nil, text, nil
	}

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return nil, "", err
	}

	body := rest[end:]
	if nl := strings.Index(body, "\n"); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}
	return meta, body, nil
}

// splitSentences breaks text at sentence terminators followed by whitespace
// and at blank lines. Whitespace is collapsed inside each sentence.
func splitSentences(text string) []string {
	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		s := strings.Join(strings.Fields(cur.String()), " ")
		if s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '\n' && i+1 < len(runes) && isBlankLineAhead(runes[i+1:]) {
			flush()
			continue
		}

		cur.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && (i+1 == len(runes) || unicode.IsSpace(runes[i+1])) {
			flush()
		}
	}
	flush()
	return out
}

// isBlankLineAhead reports whether the next line holds only whitespace.
func isBlankLineAhead(rs []rune) bool {
	for _, r := range rs {
		if r == '\n' {
			return true
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// windowSentences groups sentences into chunks of size, each sharing overlap
// sentences with the previous one.
func windowSentences(sentences []string, size, overlap int) []string {
	if len(sentences) == 0 {
		return nil
	}
	step := size - overlap
	if step <= 0 {
		step = 1
	}

	var chunks []string
	for start := 0; start < len(sentences); start += step {
		end := min(start+size, len(sentences))
		chunks = append(chunks, strings.Join(sentences[start:end], " "))
		if end == len(sentences) {
			break
		}
	}
	return chunks
}
