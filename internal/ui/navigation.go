package ui

import tea "github.com/charmbracelet/bubbletea"

type screenKind int

const (
	screenList screenKind = iota
	screenDetail
)

func (k screenKind) String() string {
	switch k {
	case screenList:
		return "list"
	case screenDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// route identifies a screen and the arguments it was opened with.
type route struct {
	kind    screenKind
	albumID string
	// selected restores the list cursor when the list is mounted again.
	selected int
}

// navigator is an immutable stack of routes. The last route is the mounted
// screen.
type navigator struct {
	stack []route
}

// newNavigator starts a stack at root.
func newNavigator(root route) navigator {
	return navigator{stack: []route{root}}
}

// current returns the mounted route.
func (n navigator) current() route {
	if len(n.stack) == 0 {
		return route{kind: screenList}
	}
	return n.stack[len(n.stack)-1]
}

// depth returns the number of routes on the stack.
func (n navigator) depth() int {
	return len(n.stack)
}

// push returns a navigator with r on top.
func (n navigator) push(r route) navigator {
	next := make([]route, len(n.stack), len(n.stack)+1)
	copy(next, n.stack)
	return navigator{stack: append(next, r)}
}

// pop returns a navigator without the top route. The root route is never
// popped; ok is false when there is nothing to go back to.
func (n navigator) pop() (navigator, bool) {
	if len(n.stack) <= 1 {
		return n, false
	}
	next := make([]route, len(n.stack)-1)
	copy(next, n.stack)
	return navigator{stack: next}, true
}

// replace returns a navigator whose top route is r.
func (n navigator) replace(r route) navigator {
	if len(n.stack) == 0 {
		return newNavigator(r)
	}
	next := make([]route, len(n.stack))
	copy(next, n.stack)
	next[len(next)-1] = r
	return navigator{stack: next}
}

// navigateMsg asks the model to unmount the current screen and open to.
type navigateMsg struct {
	to route
}

// backMsg asks the model to return to the previous route.
type backMsg struct{}

// openAlbum is the list screen's navigation callback.
func openAlbum(id string) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{to: route{kind: screenDetail, albumID: id}}
	}
}

func goBack() tea.Msg {
	return backMsg{}
}
