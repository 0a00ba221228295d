package sim

// ComposeHooks returns a hook that runs every non-nil hook in order. It is
// used to chain teardown logic without replacing what was already there.
func ComposeHooks(hooks ...func()) func() {
	live := make([]func(), 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			live = append(live, h)
		}
	}
	return func() {
		for _, h := range live {
			h()
		}
	}
}
