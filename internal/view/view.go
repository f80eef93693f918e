// Package view renders the HTML pages and datastar fragments. Components
// are written in the .templ files; the _templ.go files are generated with
// `templ generate`.
package view

// AnswerID is the element the assistant answer is patched into.
const AnswerID = "answer"

// Flash is a one-shot message carried across a redirect.
type Flash struct {
	Type    string // "success", "error" or "info"
	Message string
}

const styles = `body{font-family:system-ui,sans-serif;margin:0;background:#f6f7f9;color:#1d1f23}
.navbar{display:flex;gap:1rem;align-items:center;padding:.75rem 1.5rem;background:#1d1f23;color:#fff}
.navbar a{color:#fff}.brand{font-weight:700;margin-right:auto}.inline{display:inline}
main{max-width:48rem;margin:2rem auto;padding:0 1rem}
form.card,.card{background:#fff;border-radius:.5rem;padding:1.5rem;box-shadow:0 1px 3px rgba(0,0,0,.1)}
label{display:block;margin:.75rem 0 .25rem}input,textarea{width:100%;padding:.5rem;box-sizing:border-box}
button{margin-top:1rem;padding:.5rem 1rem}
.flash{padding:.75rem;border-radius:.25rem;margin-bottom:1rem}.flash-success{background:#dff5e1}
.flash-error,.error{background:#fde2e1;padding:.75rem;border-radius:.25rem;margin-bottom:1rem}.flash-info{background:#e1ecfd}
.answer pre{white-space:pre-wrap;background:#fff;padding:1rem;border-radius:.25rem}`
