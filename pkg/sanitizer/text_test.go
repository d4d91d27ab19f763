package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/taskmanager/pkg/sanitizer"
)

func TestLine(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want string
	}{
		"plain title":          {"Buy milk", "Buy milk"},
		"surrounding space":    {"  Buy milk \n", "Buy milk"},
		"inner whitespace":     {"Buy\n\tmilk   today", "Buy milk today"},
		"inline markup":        {"Call <b>Ann</b> back", "Call Ann back"},
		"script":               {`Pay rent<script>fetch("/v1/tasks")</script>`, "Pay rent"},
		"event handler":        {`<img src=x onerror="alert(1)">Water plants`, "Water plants"},
		"javascript link":      {`<a href="javascript:alert(1)">Read docs</a>`, "Read docs"},
		"ampersand":            {"Q&A prep", "Q&A prep"},
		"escaped tag as text":  {"use &lt;br&gt; tags", "use <br> tags"},
		"comparison operators": {"a < b > c", "a < b > c"},
		"markup only":          {"<style>p{}</style>", ""},
		"blank":                {" \t\n", ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.Line(tt.in))
		})
	}
}

func TestStripHTML_LeavesPlainTextAlone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", sanitizer.StripHTML(""))
	assert.Equal(t, "  keep  spacing ", sanitizer.StripHTML("  keep  spacing "))
}
