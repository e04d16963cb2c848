package render

import "testing"

func TestSanitizeSummary(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text", input: "S", want: "S"},
		{name: "empty", input: "", want: ""},
		{name: "allowed tags", input: "<p><b>Bold</b> and <i>italic</i></p>", want: "<p><b>Bold</b> and <i>italic</i></p>"},
		{name: "attributes stripped", input: `<p class="x" onclick="y()">Hi</p>`, want: "<p>Hi</p>"},
		{name: "unknown tags dropped", input: `<a href="http://x">link</a> <span>s</span>`, want: "link s"},
		{name: "script removed", input: "before<script>alert(1)</script>after", want: "beforeafter"},
		{name: "style removed", input: "<style>p{}</style><p>x</p>", want: "<p>x</p>"},
		{name: "br self closing", input: "a<br/>b<br>c", want: "a<br>b<br>c"},
		{name: "text escaped", input: "Tom &amp; Jerry <3", want: "Tom &amp; Jerry &lt;3"},
		{name: "uppercase tags", input: "<P>Up</P>", want: "<p>Up</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := string(SanitizeSummary(tt.input)); got != tt.want {
				t.Errorf("SanitizeSummary(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
