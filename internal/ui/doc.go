// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-view workflow for browsing a saved fetch run:
//  1. [TrackListView] : Scroll through the merged track records
//  2. [DetailView] : Inspect one record's audio features
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Records are loaded from the local database before the program starts, so the
// model is fully synchronous.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
