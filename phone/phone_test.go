package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_Layouts(t *testing.T) {
	p := NewParser()

	for _, raw := range []string{
		"+7 982 123 4567",
		"+7 982 123 45 67",
		"+7 (982) 123-4567",
		"+79821234567",
		"8 982 123 4567",
		"8 982 123 45 67",
		"8 (982) 123-4567",
		"89821234567",
	} {
		t.Run(raw, func(t *testing.T) {
			got, ok := p.Parse(raw)
			assert.True(t, ok)
			assert.Equal(t, "+7-982-123-4567", got)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	p := NewParser()

	for _, raw := range []string{
		"",
		"+7 999 123 4567",
		"8 (999) 123-4567",
		"+7 982 123 456",
		"+7-982-123-4567",
		"7 982 123 4567",
		" +7 982 123 4567",
		"+7 982 123 4567 ",
		"+7 (982)123-4567",
		"+7 982 abc 4567",
	} {
		t.Run(raw, func(t *testing.T) {
			got, ok := p.Parse(raw)
			assert.False(t, ok)
			assert.Empty(t, got)
		})
	}
}

func TestNewParser_AreaCodes(t *testing.T) {
	for _, code := range DefaultAreaCodes {
		_, ok := NewParser().Parse("8 " + itoa3(code) + " 000 0000")
		assert.True(t, ok, "default area code %d", code)
	}

	p := NewParser(999)
	got, ok := p.Parse("+7 999 123 4567")
	assert.True(t, ok)
	assert.Equal(t, "+7-999-123-4567", got)

	_, ok = p.Parse("+7 982 123 4567")
	assert.False(t, ok)
}

func itoa3(n int) string {
	return string([]byte{byte('0' + n/100), byte('0' + n/10%10), byte('0' + n%10)})
}
