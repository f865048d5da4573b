// Package session implements the interactive navigation layer: the main menu loop, category browsing,
// video actions, channel management and the Learning Log viewer.
//
// A [Session] talks to the user only through a [Prompter], which [ui.Terminal] implements with bubbletea
// programs. Tests drive the same flows with a scripted prompter.
//
// Capabilities such as gist sync and the detected player are computed once at startup and passed in
// through [Capabilities].
package session
