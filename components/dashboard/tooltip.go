package dashboard

// TooltipState tracks which chart bar, if any, has its tooltip open.
// The zero value is NoneHovered.
type TooltipState struct {
	index  int
	active bool
}

// NoneHovered is the state with no tooltip visible.
func NoneHovered() TooltipState { return TooltipState{} }

// Hovered is the state with the tooltip of bar i visible.
func Hovered(i int) TooltipState { return TooltipState{index: i, active: true} }

// Bar returns the hovered index, if any.
func (t TooltipState) Bar() (int, bool) {
	return t.index, t.active
}

// Index returns the hovered index or -1.
func (t TooltipState) Index() int {
	if !t.active {
		return -1
	}
	return t.index
}

// Enter handles pointer-enter on bar i.
func (t TooltipState) Enter(i int) TooltipState {
	return Hovered(i)
}

// Leave handles pointer-leave.
func (t TooltipState) Leave() TooltipState {
	return NoneHovered()
}

// Tap toggles bar i: tapping the open bar closes it, any other bar opens.
func (t TooltipState) Tap(i int) TooltipState {
	if t.active && t.index == i {
		return NoneHovered()
	}
	return Hovered(i)
}

// clamp drops the hover when it no longer points at a visible bar.
func (t TooltipState) clamp(visible int) TooltipState {
	if t.active && (t.index < 0 || t.index >= visible) {
		return NoneHovered()
	}
	return t
}
