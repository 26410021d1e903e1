package invoice

import "strings"

var (
	wordUnits  = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	wordTeens  = []string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	wordTens   = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
	wordScales = []string{"", "Thousand", "Lakh", "Crore"}
)

// Words converts a non-negative integer to Indian-numbering-system words:
// three-digit chunks below a thousand, then Thousand, Lakh, and Crore scale
// words. Zero maps to "Zero".
func Words(value int64) string {
	if value == 0 {
		return "Zero"
	}

	var parts []string
	remaining := value
	scaleIndex := 0
	for remaining > 0 {
		chunk := remaining % 1000
		if chunk > 0 {
			text := chunkWords(int(chunk))
			if scale := wordScales[scaleIndex]; scale != "" {
				text += " " + scale
			}
			parts = append([]string{text}, parts...)
		}
		remaining /= 1000
		scaleIndex++
		if scaleIndex >= len(wordScales) {
			scaleIndex = len(wordScales) - 1
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func chunkWords(chunk int) string {
	var parts []string
	if chunk >= 100 {
		parts = append(parts, wordUnits[chunk/100]+" Hundred")
		chunk %= 100
	}
	switch {
	case chunk >= 20:
		parts = append(parts, wordTens[chunk/10])
		if chunk%10 > 0 {
			parts = append(parts, wordUnits[chunk%10])
		}
	case chunk >= 10:
		parts = append(parts, wordTeens[chunk-10])
	case chunk > 0:
		parts = append(parts, wordUnits[chunk])
	}
	return strings.Join(parts, " ")
}
