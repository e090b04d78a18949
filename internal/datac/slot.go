package datac

// slot is a write-once field: unset until the first Set, read-only after.
type slot[T any] struct {
	set bool
	v   T
}

func (s *slot[T]) Set(v T) error {
	if s.set {
		return ErrReadOnly
	}
	s.v = v
	s.set = true
	return nil
}

func (s *slot[T]) Get() (T, bool) {
	return s.v, s.set
}

func (s *slot[T]) IsSet() bool {
	return s.set
}
