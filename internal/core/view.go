package core

// View is the rendering surface the controller pushes display updates to.
type View interface {
	SetNowPlaying(np NowPlaying)
	SetProgress(p Progress)
	SetButton(b ButtonState)
}

// NopView discards all updates.
type NopView struct{}

func (NopView) SetNowPlaying(NowPlaying) {}
func (NopView) SetProgress(Progress)     {}
func (NopView) SetButton(ButtonState)    {}
