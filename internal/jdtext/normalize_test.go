package jdtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_PlainText(t *testing.T) {
	in := "  Senior   Developer \r\n\r\n- Mentor\tjunior developers  \n\n\n- 5+ years experience "
	assert.Equal(t, "Senior Developer\n- Mentor junior developers\n- 5+ years experience", Normalize(in))
}

func TestNormalize_HTML(t *testing.T) {
	in := `<div class="posting"><h2>Senior Full Stack Developer</h2>
<p>Join our <strong>platform</strong> team &amp; build things.</p>
<ul><li>Design scalable web apps</li><li>Mentor junior developers</li></ul>
<p>Requirements:<br>5+ years<br/>BS in Computer Science</p>
<script>alert("x")</script><style>p { color: red }</style></div>`

	want := "Senior Full Stack Developer\n" +
		"Join our platform team & build things.\n" +
		"- Design scalable web apps\n" +
		"- Mentor junior developers\n" +
		"Requirements:\n" +
		"5+ years\n" +
		"BS in Computer Science"
	assert.Equal(t, want, Normalize(in))
}

func TestNormalize_Blank(t *testing.T) {
	assert.Empty(t, Normalize(""))
	assert.Empty(t, Normalize(" \n\t "))
	assert.Empty(t, Normalize("<p> </p><br><div> </div>"))
}

func TestNormalize_LessThanIsNotHTML(t *testing.T) {
	in := "Salary <150k and experience > 3 years"
	assert.False(t, LooksLikeHTML(in))
	assert.Equal(t, in, Normalize(in))
}

func TestNormalize_TagNamesInPlainText(t *testing.T) {
	tests := []string{
		"Front-end developer. Build accessible pages with semantic <section> and <article> elements, and style <table> layouts with CSS.",
		"Replace <div> soup with <main>, <nav> and <aside>. Use <b>bold</b> sparingly.",
		"Experience with <br> handling in email templates",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			assert.False(t, LooksLikeHTML(in))
			assert.Equal(t, in, Normalize(in))
		})
	}
}

func TestNormalize_HTMLFragment(t *testing.T) {
	in := "Senior Developer<p>Own the <b>billing</b> service.</p><ul><li>Go</li><li>Postgres</li></ul>"
	assert.True(t, LooksLikeHTML(in))
	assert.Equal(t, "Senior Developer\nOwn the billing service.\n- Go\n- Postgres", Normalize(in))
}
