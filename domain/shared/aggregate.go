package shared

// Entity a record addressed only by its natural key.
// The natural key is immutable, every other attribute may change through Save.
type Entity interface {
	NaturalKey() string
}
