package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkillRemark(t *testing.T) {
	assert.Equal(t, "Beginning", SkillRemark(1))
	assert.Equal(t, "Progressing", SkillRemark(2))
	assert.Equal(t, "Accomplished", SkillRemark(3))
	assert.Equal(t, "Outstanding", SkillRemark(4))
	assert.Equal(t, "", SkillRemark(5))
	assert.Equal(t, "", SkillRemark(0))
	assert.Equal(t, "", SkillRemark(-2))
}

func TestSkillRemarkFor(t *testing.T) {
	three := 3
	assert.Equal(t, "Accomplished", SkillRemarkFor(&three))
	assert.Equal(t, "", SkillRemarkFor(nil))
}
