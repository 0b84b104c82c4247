package profile

type LookupStatus string

const (
	LookupFound      LookupStatus = "found"
	LookupNotFound   LookupStatus = "not_found"
	LookupStoreError LookupStatus = "store_error"
)

// Lookup is the outcome of resolving one profile by user id.
// NotFound and StoreError are ordinary values, not failures of the caller.
type Lookup struct {
	Status  LookupStatus
	Profile Profile
	Err     error
}

func Found(p Profile) Lookup {
	return Lookup{Status: LookupFound, Profile: p}
}

func NotFound() Lookup {
	return Lookup{Status: LookupNotFound}
}

func StoreError(err error) Lookup {
	return Lookup{Status: LookupStoreError, Err: err}
}

func (l Lookup) IsFound() bool {
	return l.Status == LookupFound
}
