package kvstore

// Flag is a boolean setting persisted as "1"/"0"
type Flag struct {
	Namespace string
	Key       string
	Default   bool
}

// Load returns the stored value; missing keys and storage errors yield Default
func (f Flag) Load(s Store) bool {
	v, err := s.Get(f.Namespace, f.Key)
	if err != nil {
		return f.Default
	}
	switch v {
	case "1", "true":
		return true
	case "0", "false":
		return false
	default:
		return f.Default
	}
}

// Store persists the value; errors are returned for logging, callers may ignore them
func (f Flag) Store(s Store, on bool) error {
	v := "0"
	if on {
		v = "1"
	}
	return s.Set(f.Namespace, f.Key, v)
}

// Toggle flips and persists the flag, returning the new value
func (f Flag) Toggle(s Store) (bool, error) {
	next := !f.Load(s)
	return next, f.Store(s, next)
}

// Predefined flags
var (
	// EditMode allows drag without a modifier; default off
	EditMode = Flag{Namespace: NamespaceLocal, Key: KeyEditMode, Default: false}
	// Animations enables decorative effects; anything but "0" reads as on
	Animations = Flag{Namespace: NamespaceLocal, Key: KeyAnimations, Default: true}
)
