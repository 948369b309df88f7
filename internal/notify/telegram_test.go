package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkdown(t *testing.T) {
	s := &TelegramSender{}

	assert.Equal(t, `Social Studies Teacher \- High School`, s.escapeMarkdown("Social Studies Teacher - High School"))
	assert.Equal(t, `History Teacher \(7\-12\)`, s.escapeMarkdown("History Teacher (7-12)"))
	assert.Equal(t, `Mt\. Lebanon School District`, s.escapeMarkdown("Mt. Lebanon School District"))
	assert.Equal(t, "plain title", s.escapeMarkdown("plain title"))
}
