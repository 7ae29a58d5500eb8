package grading

var skillRemarks = map[int]string{
	1: "Beginning",
	2: "Progressing",
	3: "Accomplished",
	4: "Outstanding",
}

// SkillRemark maps a 1-4 skill score to its qualitative remark.
// Scores outside that range yield "".
func SkillRemark(score int) string {
	return skillRemarks[score]
}

// SkillRemarkFor is SkillRemark for an optional score.
func SkillRemarkFor(score *int) string {
	if score == nil {
		return ""
	}
	return SkillRemark(*score)
}
