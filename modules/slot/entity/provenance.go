package entity

const SourceInternal = "internal"

// Provenance tags where a slot came from. Only Internal slots are mutable;
// the interface is sealed so no other variant can claim otherwise.
type Provenance interface {
	Tag() string
	Mutable() bool
	provenance()
}

// Internal slots are created by the owner through this service.
type Internal struct{}

func (Internal) Tag() string   { return SourceInternal }
func (Internal) Mutable() bool { return true }
func (Internal) provenance()   {}

// Imported slots are read-only copies of external calendar events.
type Imported struct {
	ProviderID string
}

func (i Imported) Tag() string { return i.ProviderID }
func (Imported) Mutable() bool { return false }
func (Imported) provenance()   {}

// ParseProvenance maps a stored tag back to its variant.
func ParseProvenance(tag string) Provenance {
	if tag == "" || tag == SourceInternal {
		return Internal{}
	}
	return Imported{ProviderID: tag}
}
