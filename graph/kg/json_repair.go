package kg

import "strings"

// repairJSON attempts to fix formatting issues that show up in LLM JSON
// output: markdown code fences around the object, trailing commas before
// a closing bracket, and keys missing their opening quote.
func repairJSON(s string) string {
	s = stripCodeFences(s)
	s = removeTrailingCommas(s)
	return quoteBareKeys(s)
}

// stripCodeFences removes a surrounding ```json ... ``` block.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// removeTrailingCommas drops commas that directly precede } or ],
// skipping content inside string literals.
func removeTrailingCommas(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	inString := false
	escaped := false
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if inString {
			out.WriteRune(ch)
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out.WriteRune(ch)
			continue
		}

		if ch == ',' {
			j := i + 1
			for j < len(runes) && isSpace(runes[j]) {
				j++
			}
			if j < len(runes) && (runes[j] == '}' || runes[j] == ']') {
				continue // drop the comma
			}
		}
		out.WriteRune(ch)
	}
	return out.String()
}

// quoteBareKeys adds the missing opening quote to keys written as
// `name":` instead of `"name":`, a truncation some models produce.
func quoteBareKeys(s string) string {
	var out strings.Builder
	out.Grow(len(s) + 16)

	runes := []rune(s)
	i := 0
	for i < len(runes) {
		ch := runes[i]
		out.WriteRune(ch)
		i++

		if ch != '{' && ch != ',' {
			continue
		}
		for i < len(runes) && isSpace(runes[i]) {
			out.WriteRune(runes[i])
			i++
		}
		if i >= len(runes) || runes[i] == '"' || !isKeyRune(runes[i]) {
			continue
		}

		// Possible bare key; scan to see if it ends with ": which
		// means only the opening quote is missing.
		j := i
		for j < len(runes) && isKeyRune(runes[j]) {
			j++
		}
		if j+1 < len(runes) && runes[j] == '"' && runes[j+1] == ':' {
			out.WriteRune('"')
		}
		for ; i < j; i++ {
			out.WriteRune(runes[i])
		}
	}
	return out.String()
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}

func isKeyRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == ' '
}
