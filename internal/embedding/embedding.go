package embedding

// Stateful is implemented by embedders whose vector space is derived from
// the corpus at build time (e.g. tf-idf). Their state must be persisted
// alongside the index so queries embed in the same space.
type Stateful interface {
	SaveState(dir string) error
	LoadState(dir string) error
}
