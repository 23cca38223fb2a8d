// Package ui is the terminal front-end of the pulsar console, built on
// Bubble Tea.
//
// The Model never touches the store. It sends commands to a
// console.Console and renders the events it publishes: reload and append
// events carry styled transcript text, search events carry match highlights
// already located in that text, and details events open a single entity.
//
// # Files
//
//   - app.go: Model, message loop and the Run entry point
//   - document.go: transcript text painted into viewport lines with match and
//     link highlights
//   - input.go: key handling and the search, filter and confirm prompts
//   - header.go: header and footer bars
//   - details.go: the entity details pane
//   - help.go, keys.go, theme.go: key bindings, help overlay and themes
//
// Display toggles and the theme are saved to the preferences file as they
// change.
package ui
