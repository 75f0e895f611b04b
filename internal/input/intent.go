package input

// Intent is the normalized steering signal. Both or neither may be held.
type Intent struct {
	Left  bool
	Right bool
}

// IntentSource is polled once per simulation tick.
type IntentSource interface {
	Intent() Intent
}

// Fixed always reports the same intent.
type Fixed Intent

// Intent implements IntentSource.
func (f Fixed) Intent() Intent {
	return Intent(f)
}
