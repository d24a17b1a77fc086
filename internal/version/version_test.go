package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessorsMatchInfo(t *testing.T) {
	v, c, d := Info()

	assert.NotEmpty(t, v)
	assert.NotEmpty(t, c)
	assert.NotEmpty(t, d)

	assert.Equal(t, v, GetVersion())
	assert.Equal(t, c, GetCommit())
	assert.Equal(t, d, GetDate())
}

func TestStringUsesLdflagsValues(t *testing.T) {
	prevV, prevC, prevD := version, commit, date
	t.Cleanup(func() { version, commit, date = prevV, prevC, prevD })

	version, commit, date = "1.4.0", "abc123", "2024-05-01"
	assert.Equal(t, "version=1.4.0 commit=abc123 date=2024-05-01", String())
}
