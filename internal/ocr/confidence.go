package ocr

import (
	"regexp"
	"strings"
)

var (
	reIDGroups = regexp.MustCompile(`\b\d{4}\s\d{4}\s\d{4}\b|\b\d{12}\b`)
	reDOBLabel = regexp.MustCompile(`\b(dob|date of birth|year of birth|yob)\b|जन्म`)
	reDMY      = regexp.MustCompile(`\b\d{1,2}[/\-.]\d{1,2}[/\-.]\d{4}\b`)
	reGender   = regexp.MustCompile(`\b(male|female)\b|पुरुष|महिला`)
)

// heuristicConfidence scores how much the text looks like an ID card.
func heuristicConfidence(txt string) float32 {
	txtL := strings.ToLower(txt)
	score := float32(0.2) // base
	if reIDGroups.MatchString(txtL) {
		score += 0.3
	}
	if reDOBLabel.MatchString(txtL) || reDMY.MatchString(txtL) {
		score += 0.2
	}
	if reGender.MatchString(txtL) {
		score += 0.15
	}
	if len(txt) > 80 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// blendConfidence weights tesseract's own word confidence higher when present.
func blendConfidence(tsv, heuristic float32) float32 {
	conf := heuristic
	if tsv > 0 {
		conf = 0.7*tsv + 0.3*heuristic
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}
