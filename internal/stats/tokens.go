package stats

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// Encoding is the BPE encoding used for token counts.
const Encoding = "cl100k_base"

var loaderOnce sync.Once

// Counter counts tokens with a tiktoken encoding.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter loads the encoding from the tables compiled into the binary;
// it never downloads.
func NewCounter() (*Counter, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
	enc, err := tiktoken.GetEncoding(Encoding)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", Encoding, err)
	}
	return &Counter{enc: enc}, nil
}

// Count returns the number of tokens in text. Special-token markers are
// counted as ordinary text.
func (c *Counter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// CountFile fills st.Tokens from the content Collect read. Binary or
// unreadable files are left untouched.
func (c *Counter) CountFile(st *FileStats) {
	if st.Text == nil {
		return
	}
	st.Tokens = c.Count(st.Text.content)
}
