package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello world", "hello world"},
		{"simple tags", "<p>hello <b>world</b></p>", "hello world"},
		{"nested markup", "<div><h1>Title</h1><p>body   text</p></div>", "Title body text"},
		{"adjacent blocks", "<h1>Title</h1><p>body</p>", "Title body"},
		{"list items", "<ul><li>one</li><li>two</li><li>three</li></ul>", "one two three"},
		{"whitespace collapsed", "  hello \n\t world  ", "hello world"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripMarkup(tt.in))
		})
	}
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 2, WordCount("hello world"))
	assert.Equal(t, 3, WordCount("<p>one</p><p>two three</p>"))
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 0, ReadingTime(0))
	assert.Equal(t, 1, ReadingTime(1))
	assert.Equal(t, 1, ReadingTime(200))
	assert.Equal(t, 2, ReadingTime(201))
	assert.Equal(t, 5, ReadingTime(1000))
}

func TestWordCountLongBody(t *testing.T) {
	body := "<article>" + strings.Repeat("word ", 450) + "</article>"
	wc := WordCount(body)
	assert.Equal(t, 450, wc)
	assert.Equal(t, 3, ReadingTime(wc))
}
