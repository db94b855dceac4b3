package testutil

type Gen interface {
	New() string
}

// IDGen wraps another generator but remembers the next ID that will be
// returned in order to make assertions.
type IDGen struct {
	gen Gen
	id  string
}

// New implements the id.ID interface.
func (s *IDGen) New() string {
	id := s.id
	s.id = s.gen.New()
	return id
}

// Next returns the ID the next call to New will return.
func (s *IDGen) Next() string {
	return s.id
}

func NewIDGen(gen Gen) *IDGen {
	return &IDGen{
		gen: gen,
		id:  gen.New(),
	}
}
