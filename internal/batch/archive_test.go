package batch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveWriter_UniqueName(t *testing.T) {
	a := newArchiveWriter(time.Time{})
	assert.Equal(t, "a.pdf", a.uniqueName("a.pdf"))
	assert.Equal(t, "a_2.pdf", a.uniqueName("a.pdf"))
	assert.Equal(t, "a.jpg", a.uniqueName("a.jpg"))
	assert.Equal(t, "a_3.pdf", a.uniqueName("a.pdf"))

	b := newArchiveWriter(time.Time{})
	assert.Equal(t, "x_2.pdf", b.uniqueName("x_2.pdf"))
	assert.Equal(t, "x.pdf", b.uniqueName("x.pdf"))
	assert.Equal(t, "x_3.pdf", b.uniqueName("x.pdf"), "skips a name already taken literally")
}

func TestArchiveWriter_EmptyArchiveIsValid(t *testing.T) {
	data, err := newArchiveWriter(time.Now()).close()
	require.NoError(t, err)
	assert.Empty(t, archiveNames(t, data))
}
