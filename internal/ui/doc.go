// Package ui renders the album browser as a Bubble Tea program.
//
// Every screen mount creates a state.Controller and hands its single fetch
// to Bubble Tea as a command. The view then reads the controller state on
// each frame and picks exactly one branch: a spinner while loading, a short
// failure message, or the content. Unmounting a screen closes its
// controller, and settle messages that name an activation other than the
// mounted one are dropped.
//
// Navigation is a stack of routes (album list, album detail). Going back
// re-mounts the previous route, so the list is fetched again from scratch.
package ui
