package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"script removed with content", "<script>x</script>milk", "milk"},
		{"allowed markup kept", "<p><strong>milk</strong> and <em>eggs</em></p>", "<p><strong>milk</strong> and <em>eggs</em></p>"},
		{"event handler stripped", `<p onclick="steal()">hi</p>`, "<p>hi</p>"},
		{"unknown tag unwrapped", "<blink>hi</blink>", "hi"},
		{"iframe dropped", `<iframe src="https://evil.example"></iframe>ok`, "ok"},
		{"javascript link dropped", `<a href="javascript:alert(1)">x</a>`, "x"},
		{"comment kept", "<p>a</p><!-- todo: buy bread --><p>b</p>", "<p>a</p><!-- todo: buy bread --><p>b</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestClean_Styles(t *testing.T) {
	out := Clean(`<span style="color: red; position: absolute">warn</span>`)
	assert.Contains(t, out, "color: red")
	assert.NotContains(t, out, "position")
	assert.Contains(t, out, "warn")
}
