package view

import (
	"bytes"
	"context"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestLoginPage(t *testing.T) {
	doc := render(t, LoginPage(&Flash{Type: "success", Message: "Registration successful! Please log in."}, "Invalid username or password", "alice"))

	require.Equal(t, "Log in | Ekaksh", doc.Find("title").Text())
	require.Equal(t, "Registration successful! Please log in.", doc.Find(".flash-success").Text())
	require.Equal(t, "Invalid username or password", doc.Find(".error").Text())
	val, _ := doc.Find("#login-form input[name=username]").Attr("value")
	require.Equal(t, "alice", val)
	require.Equal(t, 1, doc.Find("#login-form input[name=password][type=password]").Length())
	require.Equal(t, 0, doc.Find("#logout").Length())
}

func TestRegisterPage(t *testing.T) {
	doc := render(t, RegisterPage("Passwords do not match!", ""))

	require.Equal(t, "Passwords do not match!", doc.Find(".error").Text())
	require.Equal(t, 1, doc.Find("#register-form input[name=confirm_password]").Length())
}

func TestAssistantPage(t *testing.T) {
	doc := render(t, AssistantPage("alice", nil))

	require.Equal(t, "alice", doc.Find(".navbar .user").Text())
	require.Equal(t, 1, doc.Find("#logout").Length())
	require.Equal(t, 1, doc.Find("#"+AnswerID).Length())

	click, ok := doc.Find("#ask").Attr("data-on:click")
	require.True(t, ok)
	require.Equal(t, "@post('/assistant/query')", click)
	_, ok = doc.Find("#query").Attr("data-bind:query")
	require.True(t, ok)
}

func TestEscaping(t *testing.T) {
	doc := render(t, AssistantPage(`<script>alert(1)</script>`, nil))
	require.Equal(t, 0, doc.Find("nav script").Length())
	require.Equal(t, `<script>alert(1)</script>`, doc.Find(".navbar .user").Text())

	frag := render(t, AnswerFragment("code", "if a < b && c > d {}"))
	require.Equal(t, "if a < b && c > d {}", frag.Find("#answer pre").Text())
	kind, _ := frag.Find("#answer").Attr("data-kind")
	require.Equal(t, "code", kind)
}

func TestAnswerError(t *testing.T) {
	doc := render(t, AnswerError("Please enter a valid query"))
	require.Equal(t, "Please enter a valid query", doc.Find("#answer .error").Text())
}

func TestLayout_RendersChildren(t *testing.T) {
	child := templ.Raw(`<p id="child">hello</p>`)
	var buf bytes.Buffer
	err := Layout("Home", "", &Flash{Type: "info", Message: "Please log in first."}).
		Render(templ.WithChildren(context.Background(), child), &buf)
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	require.Equal(t, "hello", doc.Find("main #child").Text())
	require.Equal(t, "Please log in first.", doc.Find("main .flash.flash-info").Text())
	require.Equal(t, 1, doc.Find("head style").Length())
	require.Equal(t, 1, doc.Find(`a[href="/register"]`).Length())
}
