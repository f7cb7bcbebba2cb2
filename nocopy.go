package sharedptr

// noCopy may be embedded in structs which must not be copied after first use.
// go vet's copylocks check reports copies of anything containing it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
