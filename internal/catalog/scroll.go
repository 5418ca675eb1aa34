package catalog

// ScrollState is the state of a ScrollTrigger
type ScrollState int

const (
	ScrollIdle ScrollState = iota
	ScrollLoading
)

func (s ScrollState) String() string {
	if s == ScrollLoading {
		return "loading"
	}
	return "idle"
}

// ScrollTrigger turns sentinel visibility changes into load-more calls.
// It fires on a hidden-to-visible transition while idle and returns to idle
// only after the caller reports that the load it started has finished.
type ScrollTrigger struct {
	state      ScrollState
	visible    bool
	onLoadMore func()
}

// NewScrollTrigger creates an idle trigger; onLoadMore may be nil
func NewScrollTrigger(onLoadMore func()) *ScrollTrigger {
	return &ScrollTrigger{onLoadMore: onLoadMore}
}

func (t *ScrollTrigger) State() ScrollState {
	return t.state
}

// Observe feeds the current sentinel visibility together with whether more
// records exist and whether a load is in flight. It returns true when it
// invoked the load-more callback.
func (t *ScrollTrigger) Observe(visible, hasMore, isLoading bool) bool {
	wasVisible := t.visible
	t.visible = visible

	if t.state == ScrollLoading {
		if isLoading {
			return false
		}
		t.state = ScrollIdle
	}

	if !visible || wasVisible || !hasMore || isLoading {
		return false
	}

	t.state = ScrollLoading
	if t.onLoadMore != nil {
		t.onLoadMore()
	}
	return true
}

// Reset forgets visibility so the next visible observation counts as a transition
func (t *ScrollTrigger) Reset() {
	t.visible = false
}
